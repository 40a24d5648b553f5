package models

// GenerateStoryRequest represents the request body for generating a story draft.
type GenerateStoryRequest struct {
	Prompt   string `json:"prompt" binding:"required,min=10"`
	AgeGroup string `json:"ageGroup" binding:"required"`
	Theme    string `json:"theme" binding:"required"`
	Style    string `json:"style" binding:"required"` // illustration style, e.g. "Children's Book Illustration"
}

// SaveStoryRequest represents the request body for persisting a generated draft.
// The page image URLs are still base64 data URIs at this point; the save
// operation uploads them and stores durable URLs.
type SaveStoryRequest struct {
	Title        string      `json:"title" binding:"required,max=150"`
	Pages        []DraftPage `json:"pages" binding:"required"`
	AgeGroup     string      `json:"ageGroup" binding:"required"`
	Theme        string      `json:"theme" binding:"required"`
	ReadingLevel string      `json:"readingLevel" binding:"required"`
}

// CreateOrderRequest represents the request body for creating a payment order.
type CreateOrderRequest struct {
	PlanID string `json:"planId" binding:"required"`
	UserID string `json:"userId" binding:"required"`
}

// VerifyPaymentRequest represents the payment gateway's proof of payment,
// posted back by the client after checkout completes.
type VerifyPaymentRequest struct {
	OrderID   string `json:"orderId" binding:"required"`
	PaymentID string `json:"paymentId" binding:"required"`
	Signature string `json:"signature" binding:"required"`
	PlanID    string `json:"planId" binding:"required"`
}

// DefineWordRequest represents the request body for a contextual definition.
type DefineWordRequest struct {
	Word    string `json:"word" binding:"required"`
	Context string `json:"context" binding:"required"`
}

// SimilarStoriesRequest represents the request body for similar-story ideas.
type SimilarStoriesRequest struct {
	Count int `json:"count,omitempty"` // defaults to 1
}

// ContactRequest represents a contact-form submission.
type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required,max=5000"`
}
