package db

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"storyweaver-backend-go/internal/config"
)

var (
	// fsClient is the global Firestore client instance.
	fsClient *firestore.Client
	// fbAuthClient is the global Firebase Auth client instance.
	fbAuthClient *auth.Client
	// storageBucket is the bucket handle for generated-image uploads.
	storageBucket *gcs.BucketHandle
)

// InitFirebase initializes the Firebase Admin SDK and sets up the Firestore,
// Auth, and Storage clients. It uses credentials and project ID from the
// provided appConfig.
func InitFirebase(ctx context.Context, appConfig *config.Config) error {
	if appConfig == nil {
		return fmt.Errorf("InitFirebase: appConfig cannot be nil")
	}

	var credsOption option.ClientOption
	if appConfig.GoogleApplicationCredentials != "" {
		credsOption = option.WithCredentialsFile(appConfig.GoogleApplicationCredentials)
	} else if appConfig.FirebaseServiceAccountJSONBase64 != "" {
		decodedJSON, err := base64.StdEncoding.DecodeString(appConfig.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return fmt.Errorf("failed to decode FIREBASE_SERVICE_ACCOUNT_JSON_BASE64: %w", err)
		}
		credsOption = option.WithCredentialsJSON(decodedJSON)
	}
	// With neither set, the SDK falls back to Application Default Credentials.

	firebaseAppConfig := &firebase.Config{
		ProjectID:     appConfig.FirebaseProjectID,
		StorageBucket: appConfig.StorageBucket,
	}

	var app *firebase.App
	var err error
	if credsOption != nil {
		app, err = firebase.NewApp(ctx, firebaseAppConfig, credsOption)
	} else {
		app, err = firebase.NewApp(ctx, firebaseAppConfig)
	}
	if err != nil {
		return fmt.Errorf("firebase.NewApp: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return fmt.Errorf("app.Firestore: %w", err)
	}
	fsClient = client

	authCl, err := app.Auth(ctx)
	if err != nil {
		fsClient.Close()
		return fmt.Errorf("app.Auth: %w", err)
	}
	fbAuthClient = authCl

	storageCl, err := app.Storage(ctx)
	if err != nil {
		fsClient.Close()
		return fmt.Errorf("app.Storage: %w", err)
	}
	bucket, err := storageCl.DefaultBucket()
	if err != nil {
		fsClient.Close()
		return fmt.Errorf("storage.DefaultBucket: %w", err)
	}
	storageBucket = bucket

	return nil
}

// GetFirestoreClient returns the global Firestore client.
// Callers should check for nil, implying InitFirebase hasn't been called or failed.
func GetFirestoreClient() *firestore.Client {
	if fsClient == nil {
		log.Println("Warning: GetFirestoreClient called before InitFirebase or InitFirebase failed.")
	}
	return fsClient
}

// GetFirebaseAuthClient returns the global Firebase Auth client.
func GetFirebaseAuthClient() *auth.Client {
	if fbAuthClient == nil {
		log.Println("Warning: GetFirebaseAuthClient called before InitFirebase or InitFirebase failed.")
	}
	return fbAuthClient
}

// GetStorageBucket returns the default Cloud Storage bucket handle.
func GetStorageBucket() *gcs.BucketHandle {
	if storageBucket == nil {
		log.Println("Warning: GetStorageBucket called before InitFirebase or InitFirebase failed.")
	}
	return storageBucket
}
