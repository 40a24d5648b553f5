package models

import "time"

// Subscription status values stored on the user document.
const (
	SubscriptionStatusSubscribed   = "subscribed"
	SubscriptionStatusUnsubscribed = "unsubscribed"
)

// User represents a user in the system. The subscription fields are owned by the
// billing flow: they are only ever overwritten as a whole by a verified payment,
// except StoriesGeneratedThisMonth, which the generation workflow increments.
type User struct {
	ID          string `json:"id" firestore:"-"` // Firebase Auth UID, will be the document ID
	Email       string `json:"email" firestore:"email"`
	DisplayName string `json:"displayName,omitempty" firestore:"displayName,omitempty"`

	SubscriptionStatus        string    `json:"subscriptionStatus" firestore:"subscriptionStatus"`
	PlanID                    string    `json:"planId,omitempty" firestore:"planId,omitempty"`
	SubscriptionEndDate       time.Time `json:"subscriptionEndDate,omitempty" firestore:"subscriptionEndDate,omitempty"`
	MonthlyStoryLimit         int       `json:"monthlyStoryLimit" firestore:"monthlyStoryLimit"`
	StoriesGeneratedThisMonth int       `json:"storiesGeneratedThisMonth" firestore:"storiesGeneratedThisMonth"`

	// Audit fields from the most recent verified payment.
	LastPaymentDate time.Time `json:"lastPaymentDate,omitempty" firestore:"lastPaymentDate,omitempty"`
	PaymentID       string    `json:"paymentId,omitempty" firestore:"paymentId,omitempty"`
	OrderID         string    `json:"orderId,omitempty" firestore:"orderId,omitempty"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// SubscriptionActive reports whether the user holds a currently valid paid plan.
// A "subscribed" status past its end date counts as unsubscribed.
func (u *User) SubscriptionActive(now time.Time) bool {
	return u.SubscriptionStatus == SubscriptionStatusSubscribed && now.Before(u.SubscriptionEndDate)
}

// SubscriptionUpdate is the full set of subscription fields written when a
// payment is verified. It is applied to the user document as a single merge so
// a verification either fully activates the plan or changes nothing.
type SubscriptionUpdate struct {
	SubscriptionStatus        string    `firestore:"subscriptionStatus"`
	PlanID                    string    `firestore:"planId"`
	SubscriptionEndDate       time.Time `firestore:"subscriptionEndDate"`
	MonthlyStoryLimit         int       `firestore:"monthlyStoryLimit"`
	StoriesGeneratedThisMonth int       `firestore:"storiesGeneratedThisMonth"`
	LastPaymentDate           time.Time `firestore:"lastPaymentDate"`
	PaymentID                 string    `firestore:"paymentId"`
	OrderID                   string    `firestore:"orderId"`
}
