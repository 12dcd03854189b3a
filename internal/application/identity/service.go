// Package identity implements operator login and supervisor authorization.
package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrInvalidCredentials hides whether the username or the password was wrong
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")

// TokenIssuer signs access tokens for authenticated operators
type TokenIssuer interface {
	IssueToken(operatorID uuid.UUID, username, role string) (string, time.Time, error)
}

// Service handles operator authentication
type Service struct {
	operators identity.OperatorRepository
	tokens    TokenIssuer
	logger    *zap.Logger
}

// NewService creates a new identity Service
func NewService(operators identity.OperatorRepository, tokens TokenIssuer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		operators: operators,
		tokens:    tokens,
		logger:    logger,
	}
}

// Login checks credentials and issues an access token
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	op, err := s.authenticate(ctx, req.Username, req.Password)
	if err != nil {
		s.logger.Warn("login rejected", zap.String("username", req.Username))
		return nil, err
	}

	token, expiresAt, err := s.tokens.IssueToken(op.ID, op.Username, string(op.Role))
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Operator:    ToOperatorResponse(op),
	}, nil
}

// VerifyOverride checks supervisor credentials for a restricted action
func (s *Service) VerifyOverride(ctx context.Context, creds OverrideCredentials) (*identity.Operator, error) {
	op, err := s.authenticate(ctx, creds.Username, creds.Password)
	if err != nil || !op.CanOverride() {
		s.logger.Warn("supervisor override denied", zap.String("username", creds.Username))
		return nil, identity.ErrOverrideDenied
	}
	s.logger.Info("supervisor override granted",
		zap.String("supervisor_id", op.ID.String()),
		zap.String("username", op.Username),
	)
	return op, nil
}

// CreateOperator registers a new operator
func (s *Service) CreateOperator(ctx context.Context, req CreateOperatorRequest) (*OperatorResponse, error) {
	existing, err := s.operators.FindByUsername(ctx, strings.ToLower(strings.TrimSpace(req.Username)))
	if err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	op, err := identity.NewOperator(req.Username, req.DisplayName, req.Password, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if err := s.operators.Create(ctx, op); err != nil {
		return nil, err
	}

	response := ToOperatorResponse(op)
	return &response, nil
}

func (s *Service) authenticate(ctx context.Context, username, password string) (*identity.Operator, error) {
	op, err := s.operators.FindByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !op.Active || !op.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return op, nil
}
