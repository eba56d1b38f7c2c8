// Package auth provides authentication providers and session management.
package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/munimhq/munim/internal/common"
	"github.com/munimhq/munim/internal/model"
	"github.com/munimhq/munim/internal/service"
)

// Demo credentials accepted by the mock provider.
const (
	DemoEmail    = "demo@company.com"
	DemoPassword = "demo123"
)

// MockProvider is a credential-checking provider with no external backend.
// It is selected by configuration; production deployments plug a real
// identity backend into the same interface.
type MockProvider struct {
	mu      sync.Mutex
	current *model.User
	users   map[string]mockAccount
}

type mockAccount struct {
	user     model.User
	password string
}

// NewMockProvider creates a provider pre-seeded with the demo account.
func NewMockProvider() *MockProvider {
	demo := model.User{
		ID:          "mock-user-123",
		Email:       DemoEmail,
		CompanyName: "Demo Company Ltd",
		Role:        model.RoleAdmin,
		Plan:        model.PlanProfessional,
		CreatedAt:   time.Now().UTC(),
	}
	return &MockProvider{
		users: map[string]mockAccount{
			DemoEmail: {user: demo, password: DemoPassword},
		},
	}
}

// SignUp registers a new admin account on the basic plan.
func (p *MockProvider) SignUp(_ context.Context, email, password, companyName string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", common.ErrInvalidCredentials)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", common.ErrInvalidCredentials)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.users[email]; exists {
		return nil, fmt.Errorf("%w: %s", common.ErrDuplicateEntry, email)
	}

	user := model.User{
		ID:          uuid.New().String(),
		Email:       email,
		CompanyName: companyName,
		Role:        model.RoleAdmin,
		Plan:        model.PlanBasic,
		CreatedAt:   time.Now().UTC(),
	}
	p.users[email] = mockAccount{user: user, password: password}
	return &user, nil
}

// SignIn checks credentials and establishes the current user.
func (p *MockProvider) SignIn(_ context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	p.mu.Lock()
	defer p.mu.Unlock()
	account, ok := p.users[email]
	if !ok || account.password != password {
		return nil, common.NewUserError(
			"Invalid email or password. Use demo@company.com / demo123",
			common.ErrInvalidCredentials)
	}

	user := account.user
	p.current = &user
	return &user, nil
}

// SignOut clears the current user.
func (p *MockProvider) SignOut(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = nil
	return nil
}

// CurrentUser returns the signed-in user, or ErrNotSignedIn.
func (p *MockProvider) CurrentUser(context.Context) (*model.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil, common.ErrNotSignedIn
	}
	user := *p.current
	return &user, nil
}

var _ service.AuthProvider = (*MockProvider)(nil)
