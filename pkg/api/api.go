package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jhahn/go-otp/pkg/otp"
)

var (
	// ErrNoStore indicates the service was initialised without a Store.
	ErrNoStore = errors.New("api: no store configured")
	// ErrMissingIssuer indicates the service was initialised without an issuer.
	ErrMissingIssuer = errors.New("api: issuer required")
	// ErrAccountRequired indicates the request does not name an account.
	ErrAccountRequired = errors.New("api: account required")
	// ErrMissingOTP indicates a one-time code was required but none was provided.
	ErrMissingOTP = errors.New("api: otp required")
	// ErrNotEnrolled indicates the account has no stored secret.
	ErrNotEnrolled = errors.New("api: account not enrolled")
	// ErrNotEnabled indicates the account has a secret that was never confirmed.
	ErrNotEnabled = errors.New("api: otp not enabled for account")
	// ErrInvalidCode indicates the submitted code did not match.
	ErrInvalidCode = errors.New("api: invalid otp code")
)

// Record is the persisted OTP state of one account. Secret holds the
// Base32 text; Enabled is set once the user proves possession of the
// secret by submitting a valid code.
type Record struct {
	Account string
	Secret  string
	Enabled bool
}

// Store persists enrollment records. Get returns ErrNotEnrolled when the
// account has no record.
type Store interface {
	Get(ctx context.Context, account string) (Record, error)
	Put(ctx context.Context, rec Record) error
}

// Config configures a Service.
type Config struct {
	// Store persists records (required).
	Store Store
	// Issuer labels provisioning URIs (required).
	Issuer string
	// Options selects the algorithm, digits, period and drift window.
	// Default: otp.DefaultOptions()
	Options *otp.Options
	// SecretSize is the length in bytes of generated secrets.
	// Default: otp.DefaultSecretSize
	SecretSize int
	// Logger receives enrollment and login events. Secrets and codes are
	// never logged.
	// Default: zap.NewNop()
	Logger *zap.Logger
	// Clock supplies the verification time.
	// Default: otp.SystemClock
	Clock otp.Clock
}

// Service implements the enrollment and login flow on top of the OTP
// engine: Setup issues a secret, Confirm enables it and Login checks codes.
type Service struct {
	store      Store
	issuer     string
	opts       otp.Options
	verifier   otp.Verifier
	secretSize int
	logger     *zap.Logger
	clock      otp.Clock
}

// NewService builds a Service from the supplied configuration.
func NewService(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, ErrNoStore
	}
	if strings.TrimSpace(cfg.Issuer) == "" {
		return nil, ErrMissingIssuer
	}

	opts := otp.DefaultOptions()
	if cfg.Options != nil {
		opts = *cfg.Options
	}
	verifier, err := otp.NewVerifier(opts)
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}

	if cfg.SecretSize == 0 {
		cfg.SecretSize = otp.DefaultSecretSize
	}
	if cfg.SecretSize < otp.MinSecretSize {
		return nil, fmt.Errorf("api: %w: secret size must be at least %d bytes", otp.ErrInvalidConfig, otp.MinSecretSize)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Clock == nil {
		cfg.Clock = otp.SystemClock
	}

	return &Service{
		store:      cfg.Store,
		issuer:     cfg.Issuer,
		opts:       verifier.Options(),
		verifier:   verifier,
		secretSize: cfg.SecretSize,
		logger:     cfg.Logger,
		clock:      cfg.Clock,
	}, nil
}

// Enrollment is returned by Setup. The secret is shown to the user once,
// typically as a QR code of URI.
type Enrollment struct {
	Account string
	Secret  string
	URI     string
}

// Setup generates a fresh secret for account and stores it disabled.
// Calling Setup again for the same account replaces the secret, so an
// already enabled account must confirm again.
func (s *Service) Setup(ctx context.Context, account string) (*Enrollment, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.check(ctx, account); err != nil {
		return nil, err
	}

	secret, err := otp.GenerateSecret(s.secretSize)
	if err != nil {
		s.logger.Error("Failed to generate secret", zap.String("account", account), zap.Error(err))
		return nil, err
	}

	uri, err := otp.ProvisioningURI(secret, s.issuer, account, s.opts)
	if err != nil {
		return nil, err
	}

	rec := Record{Account: account, Secret: secret.Encode()}
	if err := s.store.Put(ctx, rec); err != nil {
		s.logger.Error("Failed to store enrollment", zap.String("account", account), zap.Error(err))
		return nil, fmt.Errorf("api: store enrollment: %w", err)
	}

	s.logger.Info("OTP enrollment started", zap.String("account", account))
	return &Enrollment{Account: account, Secret: rec.Secret, URI: uri}, nil
}

// Confirm enables the account's secret once the user submits a valid code.
func (s *Service) Confirm(ctx context.Context, account, code string) (otp.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rec, err := s.record(ctx, account)
	if err != nil {
		return otp.Result{}, err
	}
	res, err := s.verify(rec, code)
	if err != nil {
		return res, err
	}

	if !rec.Enabled {
		rec.Enabled = true
		if err := s.store.Put(ctx, rec); err != nil {
			s.logger.Error("Failed to enable OTP", zap.String("account", account), zap.Error(err))
			return otp.Result{}, fmt.Errorf("api: store enrollment: %w", err)
		}
	}

	s.logger.Info("OTP enabled", zap.String("account", account), zap.Int("step", res.Step))
	return res, nil
}

// LoginRequest contains the account and the submitted one-time code.
type LoginRequest struct {
	Account string
	OTP     string
}

// Login checks a code for an enabled account.
func (s *Service) Login(ctx context.Context, req LoginRequest) (otp.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rec, err := s.record(ctx, req.Account)
	if err != nil {
		return otp.Result{}, err
	}
	if !rec.Enabled {
		return otp.Result{}, ErrNotEnabled
	}

	res, err := s.verify(rec, req.OTP)
	if err != nil {
		return res, err
	}

	s.logger.Info("OTP login succeeded", zap.String("account", req.Account), zap.Int("step", res.Step))
	return res, nil
}

// AddDevice returns the provisioning URI of the account's existing secret
// so that another authenticator app can be enrolled with it.
func (s *Service) AddDevice(ctx context.Context, account string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	rec, err := s.record(ctx, account)
	if err != nil {
		return "", err
	}

	secret, err := otp.DecodeSecret(rec.Secret)
	if err != nil {
		return "", fmt.Errorf("api: stored secret for %q: %w", account, err)
	}

	uri, err := otp.ProvisioningURI(secret, s.issuer, account, s.opts)
	if err != nil {
		return "", err
	}

	s.logger.Info("OTP device added", zap.String("account", account))
	return uri, nil
}

func (s *Service) check(ctx context.Context, account string) error {
	if s == nil {
		return ErrNoStore
	}
	if account == "" {
		return ErrAccountRequired
	}
	return ctx.Err()
}

func (s *Service) record(ctx context.Context, account string) (Record, error) {
	if err := s.check(ctx, account); err != nil {
		return Record{}, err
	}
	rec, err := s.store.Get(ctx, account)
	if err != nil {
		if !errors.Is(err, ErrNotEnrolled) {
			s.logger.Error("Failed to load enrollment", zap.String("account", account), zap.Error(err))
		}
		return Record{}, err
	}
	return rec, nil
}

func (s *Service) verify(rec Record, code string) (otp.Result, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return otp.Result{}, ErrMissingOTP
	}

	secret, err := otp.DecodeSecret(rec.Secret)
	if err != nil {
		return otp.Result{}, fmt.Errorf("api: stored secret for %q: %w", rec.Account, err)
	}

	res, err := s.verifier.Verify(secret, code, s.clock.Now().Unix())
	if err != nil {
		return otp.Result{}, err
	}
	if !res.Matched {
		s.logger.Warn("OTP verification failed", zap.String("account", rec.Account))
		return res, ErrInvalidCode
	}
	return res, nil
}

var _ Store = (*MemoryStore)(nil)

// MemoryStore is a Store kept in process memory. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// Get returns the record for account or ErrNotEnrolled.
func (m *MemoryStore) Get(ctx context.Context, account string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[account]
	if !ok {
		return Record{}, ErrNotEnrolled
	}
	return rec, nil
}

// Put stores rec, replacing any previous record for the same account.
func (m *MemoryStore) Put(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec.Account == "" {
		return ErrAccountRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.Account] = rec
	return nil
}
