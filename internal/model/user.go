package model

import "time"

// Role controls what a user may do within a company.
type Role string

// Role constants.
const (
	RoleAdmin      Role = "admin"
	RoleAccountant Role = "accountant"
	RoleViewer     Role = "viewer"
)

// SubscriptionPlan identifies the billing tier.
type SubscriptionPlan string

// Subscription plan constants.
const (
	PlanBasic        SubscriptionPlan = "basic"
	PlanProfessional SubscriptionPlan = "professional"
	PlanEnterprise   SubscriptionPlan = "enterprise"
)

// User represents an authenticated account holder.
type User struct {
	CreatedAt   time.Time
	ID          string
	Email       string
	CompanyName string
	Role        Role
	Plan        SubscriptionPlan
}

// AuthSession is the explicit session value passed through the application
// instead of ambient global state.
type AuthSession struct {
	StartedAt time.Time
	User      *User // nil when signed out
}

// SignedIn reports whether the session has an authenticated user.
func (s AuthSession) SignedIn() bool {
	return s.User != nil
}
