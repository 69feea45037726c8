// Package capture resolves where a captured note belongs in a vault and builds
// the deep link that writes it.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/dispatch"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/payload"
	"github.com/starford/ansuz/internal/resolver"
	"github.com/starford/ansuz/internal/state"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/uri"
)

// DefaultFolder is used when neither the request nor saved state names a folder.
const DefaultFolder = "inbox"

var (
	titleRe  = regexp.MustCompile(`^[^/\\]+$`)
	folderRe = regexp.MustCompile(`^[^\\]*$`)
)

// VaultSource provides the vaults a capture may target.
type VaultSource interface {
	Eligible() []models.Vault
	Lookup(name string) (models.Vault, error)
}

// Notifier is told about every completed capture.
type Notifier interface {
	PublishCapture(ev Event)
}

// Event describes a completed capture.
type Event struct {
	ID       string `json:"id"`
	Vault    string `json:"vault"`
	FilePath string `json:"filepath"`
	Mode     string `json:"mode"`
}

// Config holds capture settings.
type Config struct {
	Exclusions    models.ExclusionConfig
	DefaultFolder string
}

// Resolution is where a title lives, or would live, in a vault.
type Resolution struct {
	Vault  models.Vault          `json:"vault"`
	Title  string                `json:"title"`
	Target models.ResolvedTarget `json:"target"`
	// Match is the absolute path of the existing note, if any.
	Match string `json:"match,omitempty"`
	// Duplicates lists other notes with the same title that lost to Match.
	Duplicates []string `json:"duplicates,omitempty"`
}

// Result is the outcome of a capture.
type Result struct {
	ID         string         `json:"id"`
	Resolution *Resolution    `json:"resolution"`
	Payload    string         `json:"payload"`
	Command    models.Command `json:"command"`
	URI        string         `json:"uri"`
	Dispatched bool           `json:"dispatched"`
}

// Defaults are the values a capture form starts with.
type Defaults struct {
	Vault  string `json:"vault"`
	Folder string `json:"folder"`
}

// Option configures a Service.
type Option func(*Service)

// WithDispatcher sets where generated URIs are delivered.
func WithDispatcher(d dispatch.Dispatcher) Option {
	return func(s *Service) { s.dispatcher = d }
}

// WithNotifier sets the capture event sink.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// Service runs captures. Each call walks the vault afresh; nothing about
// vault contents is cached between calls.
type Service struct {
	cfg        Config
	vaults     VaultSource
	state      state.Store
	dispatcher dispatch.Dispatcher
	notifier   Notifier
	logger     *slog.Logger
}

// NewService creates a capture service.
func NewService(cfg Config, vaults VaultSource, store state.Store, opts ...Option) *Service {
	if len(cfg.Exclusions.Extensions) == 0 {
		cfg.Exclusions.Extensions = models.DefaultExclusions().Extensions
	}
	if cfg.DefaultFolder == "" {
		cfg.DefaultFolder = DefaultFolder
	}
	s := &Service{
		cfg:    cfg,
		vaults: vaults,
		state:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Vaults returns the vaults that can receive captures.
func (s *Service) Vaults() ([]models.Vault, error) {
	eligible := s.vaults.Eligible()
	if len(eligible) == 0 {
		return nil, apperr.ErrNoEligibleVault
	}
	return eligible, nil
}

// Defaults returns the last-used vault and folder, falling back to the first
// eligible vault and the configured default folder.
func (s *Service) Defaults(ctx context.Context) (Defaults, error) {
	d := Defaults{Folder: s.cfg.DefaultFolder}

	if v, ok := s.loadState(ctx, state.KeyVault); ok {
		if _, err := s.vaults.Lookup(v); err == nil {
			d.Vault = v
		}
	}
	if d.Vault == "" {
		eligible, err := s.Vaults()
		if err != nil {
			return Defaults{}, err
		}
		d.Vault = eligible[0].Name
	}
	if f, ok := s.loadState(ctx, state.KeyFolder); ok {
		d.Folder = f
	}
	return d, nil
}

// Resolve finds whether title already exists in the named vault. When it does,
// its folder replaces folder; otherwise folder is kept. The vault is walked
// on every call.
func (s *Service) Resolve(ctx context.Context, vaultName, title, folder string) (*Resolution, error) {
	vault, err := s.vaults.Lookup(vaultName)
	if err != nil {
		return nil, err
	}

	fs, err := storage.NewFS(vault.Path)
	if err != nil {
		return nil, fmt.Errorf("capture: open vault %q: %w", vault.Name, err)
	}

	start := time.Now()
	files, err := fs.Walk(ctx, s.cfg.Exclusions)
	if err != nil {
		return nil, fmt.Errorf("capture: walk vault %q: %w", vault.Name, err)
	}
	s.logger.Debug("capture: walked vault",
		slog.String("vault", vault.Name),
		slog.Int("files", len(files)),
		slog.Duration("elapsed", time.Since(start)))

	res := &Resolution{
		Vault:  vault,
		Title:  title,
		Target: models.ResolvedTarget{Folder: strings.Trim(folder, "/")},
	}

	ext := s.cfg.Exclusions.Extensions[0]
	matches := resolver.ResolveAll(files, title, ext)
	if len(matches) == 0 {
		return res, nil
	}

	res.Match = matches[0]
	res.Duplicates = matches[1:]
	if len(res.Duplicates) > 0 {
		s.logger.Warn("capture: title is ambiguous, using first match",
			slog.String("title", title),
			slog.String("match", res.Match),
			slog.Int("duplicates", len(res.Duplicates)))
	}

	existing, err := resolver.ExtractFolder(res.Match, fs.Root(), title, ext)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	res.Target = models.ResolvedTarget{Folder: existing, Exists: true}
	return res, nil
}

// ResolveRequest fills an empty vault or folder in req from the saved
// defaults, validates it, and resolves its title. It is the read-only half of
// Capture: nothing is saved or dispatched.
func (s *Service) ResolveRequest(ctx context.Context, req *models.CaptureRequest) (*Resolution, error) {
	if err := s.fillDefaults(ctx, req); err != nil {
		return nil, err
	}
	if err := validateRequest(*req); err != nil {
		return nil, err
	}
	return s.Resolve(ctx, req.Vault, req.Title, req.Folder)
}

// Capture resolves req, formats its payload, builds the deep link, records
// the vault and folder as new defaults, and dispatches the link.
func (s *Service) Capture(ctx context.Context, req models.CaptureRequest) (*Result, error) {
	res, err := s.ResolveRequest(ctx, &req)
	if err != nil {
		return nil, err
	}

	fields := payload.Fields{
		Body:      req.Body,
		LinkURL:   req.LinkURL,
		LinkLabel: req.LinkLabel,
		Highlight: req.Highlight,
	}
	if fields.Empty() {
		s.logger.Debug("capture: empty payload",
			slog.String("title", req.Title),
			slog.Bool("append", res.Target.Exists))
	}
	data := payload.Format(fields, res.Target.Exists)

	cmd := uri.NewCommand(res.Vault.Name, res.Target, req.Title, data)
	out := &Result{
		ID:         uuid.NewString(),
		Resolution: res,
		Payload:    data,
		Command:    cmd,
		URI:        uri.Build(cmd),
	}

	s.saveState(ctx, state.KeyVault, res.Vault.Name)
	s.saveState(ctx, state.KeyFolder, res.Target.Folder)

	if s.dispatcher != nil {
		if err := s.dispatcher.Dispatch(ctx, out.URI); err != nil {
			s.logger.Warn("capture: dispatch failed", slog.String("id", out.ID), slog.String("error", err.Error()))
		} else {
			out.Dispatched = true
		}
	}

	s.logger.Info("capture: done",
		slog.String("id", out.ID),
		slog.String("vault", res.Vault.Name),
		slog.String("filepath", cmd.FilePath),
		slog.String("mode", cmd.Mode))

	if s.notifier != nil {
		s.notifier.PublishCapture(Event{
			ID:       out.ID,
			Vault:    res.Vault.Name,
			FilePath: cmd.FilePath,
			Mode:     cmd.Mode,
		})
	}
	return out, nil
}

func (s *Service) fillDefaults(ctx context.Context, req *models.CaptureRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	if req.Vault != "" && req.Folder != "" {
		return nil
	}
	d, err := s.Defaults(ctx)
	if err != nil {
		return err
	}
	if req.Vault == "" {
		req.Vault = d.Vault
	}
	if req.Folder == "" {
		req.Folder = d.Folder
	}
	return nil
}

func validateRequest(req models.CaptureRequest) error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Required, validation.Match(titleRe).Error("must not contain path separators")),
		validation.Field(&req.Vault, validation.Required),
		validation.Field(&req.Folder, validation.Match(folderRe).Error("must use forward slashes")),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrInvalidRequest, err)
	}
	return nil
}

func (s *Service) loadState(ctx context.Context, key string) (string, bool) {
	if s.state == nil {
		return "", false
	}
	v, ok, err := s.state.Get(ctx, key)
	if err != nil {
		s.logger.Warn("capture: read state failed", slog.String("key", key), slog.String("error", err.Error()))
		return "", false
	}
	return v, ok && v != ""
}

func (s *Service) saveState(ctx context.Context, key, value string) {
	if s.state == nil {
		return
	}
	if err := s.state.Set(ctx, key, value); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("capture: save state failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
