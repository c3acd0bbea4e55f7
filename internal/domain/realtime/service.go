package realtime

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/amo-server/internal/utils/idgen"
	"github.com/janhq/amo-server/internal/utils/platformerrors"
)

// SessionCreator calls the provider to mint an ephemeral session.
type SessionCreator interface {
	CreateSession(ctx context.Context, cfg SessionConfig) (*Credential, error)
}

// Service provisions live voice credentials.
type Service interface {
	Provision(ctx context.Context, req SessionRequest) (*Credential, error)
	ActiveLeases(ctx context.Context) ([]*Lease, error)
}

// Defaults are the server-wide fallbacks for empty request fields.
type Defaults struct {
	Model    string
	Voice    string
	LeaseTTL time.Duration
}

type service struct {
	creator  SessionCreator
	store    LeaseStore
	defaults Defaults
	onIssue  func()
	now      func() time.Time
	log      zerolog.Logger
}

// Option customises the service.
type Option func(*service)

// WithIssueHook runs fn after every issued credential.
func WithIssueHook(fn func()) Option {
	return func(s *service) { s.onIssue = fn }
}

// NewService creates the provisioning service.
func NewService(creator SessionCreator, store LeaseStore, defaults Defaults, log zerolog.Logger, opts ...Option) Service {
	if defaults.Model == "" {
		defaults.Model = DefaultModel
	}
	if defaults.Voice == "" {
		defaults.Voice = DefaultVoice
	}
	if defaults.LeaseTTL <= 0 {
		defaults.LeaseTTL = time.Minute
	}
	s := &service{
		creator:  creator,
		store:    store,
		defaults: defaults,
		now:      time.Now,
		log:      log.With().Str("component", "realtime-provisioner").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Provision(ctx context.Context, req SessionRequest) (*Credential, error) {
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = s.defaults.Model
	}
	voice := strings.TrimSpace(req.Voice)
	if voice == "" {
		voice = s.defaults.Voice
	}
	if !slices.Contains(Voices, voice) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"Invalid voice. Must be one of: "+strings.Join(Voices, ", "), nil, "6a7b8c9d-0e1f-4a2b-9c3d-4e5f6a7b8c9d")
	}

	// An explicitly blank instruction string is rejected rather than defaulted.
	instructions := req.Instructions
	if instructions == "" {
		instructions = DefaultInstructions
	}
	if strings.TrimSpace(instructions) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"Instructions must not be blank", nil, "1b2c3d4e-5f6a-4b7c-8d9e-0f1a2b3c4d5e")
	}

	cred, err := s.creator.CreateSession(ctx, NewSessionConfig(model, voice, instructions))
	if err != nil {
		return nil, err
	}

	lease, err := s.lease(cred, model, voice)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to generate lease ID")
		return cred, nil
	}
	if err := s.store.Save(ctx, lease); err != nil {
		// Lease bookkeeping failures never fail the request.
		s.log.Warn().Err(err).Str("lease_id", lease.ID).Msg("failed to record realtime lease")
	} else if s.onIssue != nil {
		s.onIssue()
	}

	s.log.Info().
		Str("lease_id", lease.ID).
		Str("model", model).
		Str("voice", voice).
		Time("expires_at", lease.ExpiresAt).
		Msg("realtime session created")
	return cred, nil
}

func (s *service) ActiveLeases(ctx context.Context) ([]*Lease, error) {
	leases, err := s.store.List(ctx)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list realtime leases")
	}
	now := s.now()
	active := make([]*Lease, 0, len(leases))
	for _, l := range leases {
		if !l.Expired(now) {
			active = append(active, l)
		}
	}
	return active, nil
}

func (s *service) lease(cred *Credential, model, voice string) (*Lease, error) {
	now := s.now()
	id := cred.ID
	if id == "" {
		var err error
		id, err = idgen.GenerateSecureID("lease", 24)
		if err != nil {
			return nil, err
		}
	}
	if cred.Model != "" {
		model = cred.Model
	}
	if cred.Voice != "" {
		voice = cred.Voice
	}
	expires := cred.ExpiresAt()
	if expires.IsZero() {
		expires = now.Add(s.defaults.LeaseTTL)
	}
	return &Lease{
		ID:        id,
		Model:     model,
		Voice:     voice,
		CreatedAt: now,
		ExpiresAt: expires,
	}, nil
}
