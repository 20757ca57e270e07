package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	registryapp "github.com/menulink/backend/internal/application/registry"
	"github.com/menulink/backend/internal/domain/menu"
	"github.com/menulink/backend/internal/domain/registry"
	"github.com/menulink/backend/internal/domain/shared"
	"github.com/menulink/backend/internal/infrastructure/tenantclient"
	"go.uber.org/zap"
)

const defaultReadTimeout = 5 * time.Second

// Service orchestrates the public menu pipeline: slug resolution, handle
// acquisition, and the fan-out that produces a menu snapshot.
type Service struct {
	resolver    *registryapp.Resolver
	factory     *tenantclient.Factory
	repo        registry.TenantRepository
	readTimeout time.Duration
	logger      *zap.Logger
}

// ServiceOption is a functional option for the menu service
type ServiceOption func(*Service)

// WithReadTimeout bounds each fan-out read
func WithReadTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.readTimeout = d
		}
	}
}

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithRegistryWriteback enables the best-effort last_connected_at touch
// after fully successful aggregations.
func WithRegistryWriteback(repo registry.TenantRepository) ServiceOption {
	return func(s *Service) {
		s.repo = repo
	}
}

// NewService creates the menu aggregation service
func NewService(resolver *registryapp.Resolver, factory *tenantclient.Factory, opts ...ServiceOption) *Service {
	s := &Service{
		resolver:    resolver,
		factory:     factory,
		readTimeout: defaultReadTimeout,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Menu runs the whole pipeline for a slug. Resolution and handle
// construction failures are terminal; everything downstream degrades to
// a partial snapshot instead.
func (s *Service) Menu(ctx context.Context, slug string) (*menu.Snapshot, *registry.TenantRecord, error) {
	record, err := s.resolver.Resolve(ctx, slug)
	if err != nil {
		return nil, nil, err
	}

	client, err := s.factory.Handle(record)
	if err != nil {
		s.logger.Error("tenant handle construction failed",
			zap.String("slug", slug),
			zap.String("tenant_id", record.ID.String()),
			zap.Error(err))
		return nil, record, err
	}

	snapshot, err := s.Aggregate(ctx, client)
	if err != nil {
		return nil, record, err
	}

	if s.repo != nil && !snapshot.Partial() {
		s.touchLastConnected(record)
	}
	return snapshot, record, nil
}

// readSlot is one outcome slot of the fan-out join: either its apply
// function ran against the snapshot or err holds the read's failure.
type readSlot struct {
	source menu.Source
	run    func(ctx context.Context) (func(*menu.Snapshot), error)
	apply  func(*menu.Snapshot)
	err    error
}

// Aggregate issues the fixed set of independent reads against one tenant handle,
// all concurrently, and joins them into a snapshot once every slot has
// settled. A failing or timed-out read leaves its snapshot field empty;
// the call itself only fails when the handle was already invalidated.
func (s *Service) Aggregate(ctx context.Context, client tenantclient.Client) (*menu.Snapshot, error) {
	if client == nil {
		return nil, shared.ErrInvalidInput
	}

	slots := []*readSlot{
		{source: menu.SourceProfile, run: func(ctx context.Context) (func(*menu.Snapshot), error) {
			var profile menu.Profile
			err := client.ReadSingle(ctx, "restaurant_profile", tenantclient.ReadOptions{}, &profile)
			if errors.Is(err, shared.ErrNotFound) {
				return func(*menu.Snapshot) {}, nil
			}
			if err != nil {
				return nil, err
			}
			return func(snap *menu.Snapshot) { snap.Profile = &profile }, nil
		}},
		{source: menu.SourceCategories, run: func(ctx context.Context) (func(*menu.Snapshot), error) {
			var categories []menu.Category
			err := client.ReadCollection(ctx, "categories", tenantclient.ReadOptions{
				Eq:      map[string]string{"is_active": "true"},
				OrderBy: []tenantclient.Order{{Column: "display_order"}},
			}, &categories)
			if err != nil {
				return nil, err
			}
			return func(snap *menu.Snapshot) { snap.Categories = categories }, nil
		}},
		{source: menu.SourceItems, run: func(ctx context.Context) (func(*menu.Snapshot), error) {
			var items []menu.MenuItem
			err := client.ReadCollection(ctx, "menu_items", tenantclient.ReadOptions{
				Eq: map[string]string{"is_available": "true"},
				OrderBy: []tenantclient.Order{
					{Column: "is_featured", Desc: true},
					{Column: "display_order"},
				},
			}, &items)
			if err != nil {
				return nil, err
			}
			return func(snap *menu.Snapshot) { snap.Items = items }, nil
		}},
		{source: menu.SourceCustomization, run: func(ctx context.Context) (func(*menu.Snapshot), error) {
			// Older duplicates are kept in the backend; the newest row wins.
			var rows []menu.Customization
			err := client.ReadCollection(ctx, "customization", tenantclient.ReadOptions{
				OrderBy: []tenantclient.Order{{Column: "updated_at", Desc: true}},
				Limit:   1,
			}, &rows)
			if err != nil {
				return nil, err
			}
			return func(snap *menu.Snapshot) {
				if len(rows) > 0 {
					snap.Customization = &rows[0]
				}
			}, nil
		}},
		{source: menu.SourceLanguage, run: func(ctx context.Context) (func(*menu.Snapshot), error) {
			var settings menu.LanguageSettings
			err := client.ReadSingle(ctx, "language_settings", tenantclient.ReadOptions{}, &settings)
			if errors.Is(err, shared.ErrNotFound) {
				return func(*menu.Snapshot) {}, nil
			}
			if err != nil {
				return nil, err
			}
			return func(snap *menu.Snapshot) { snap.Language = &settings }, nil
		}},
		{source: menu.SourceCurrency, run: func(ctx context.Context) (func(*menu.Snapshot), error) {
			var settings menu.CurrencySettings
			err := client.ReadSingle(ctx, "currency_settings", tenantclient.ReadOptions{}, &settings)
			if errors.Is(err, shared.ErrNotFound) {
				return func(*menu.Snapshot) {}, nil
			}
			if err != nil {
				return nil, err
			}
			return func(snap *menu.Snapshot) { snap.Currency = &settings }, nil
		}},
		{source: menu.SourcePopup, run: func(ctx context.Context) (func(*menu.Snapshot), error) {
			var rows []menu.PopupSettings
			err := client.ReadCollection(ctx, "popup_settings", tenantclient.ReadOptions{
				OrderBy: []tenantclient.Order{{Column: "created_at", Desc: true}},
				Limit:   1,
			}, &rows)
			if err != nil {
				return nil, err
			}
			return func(snap *menu.Snapshot) {
				if len(rows) > 0 {
					snap.Popup = &rows[0]
				}
			}, nil
		}},
	}

	var wg sync.WaitGroup
	for _, slot := range slots {
		wg.Add(1)
		go func(slot *readSlot) {
			defer wg.Done()
			readCtx, cancel := context.WithTimeout(ctx, s.readTimeout)
			defer cancel()
			slot.apply, slot.err = slot.run(readCtx)
		}(slot)
	}
	wg.Wait()

	snapshot := &menu.Snapshot{
		Failures:  make(map[menu.Source]error),
		FetchedAt: time.Now(),
	}

	closedReads := 0
	for _, slot := range slots {
		if slot.err != nil {
			if errors.Is(slot.err, tenantclient.ErrClientClosed) {
				closedReads++
			}
			snapshot.Failures[slot.source] = slot.err
			s.logger.Warn("menu read failed",
				zap.String("tenant_id", client.TenantID().String()),
				zap.String("source", string(slot.source)),
				zap.Error(slot.err))
			continue
		}
		slot.apply(snapshot)
	}

	// Every read hitting a closed handle means the handle itself is
	// unusable, which is the one condition that fails the whole call.
	if closedReads == len(slots) {
		return nil, fmt.Errorf("aggregating menu for tenant %s: %w",
			client.TenantID(), tenantclient.ErrClientClosed)
	}

	resolveImageURLs(snapshot, client)
	return snapshot, nil
}

// imageBucket is the public storage bucket tenant backends keep uploaded
// menu imagery in.
const imageBucket = "menu-images"

// resolveImageURLs rewrites bucket-relative image references into public
// storage URLs through the handle. Absolute URLs pass through verbatim;
// nothing is fetched.
func resolveImageURLs(snap *menu.Snapshot, client tenantclient.Client) {
	resolve := func(ref string) string {
		if ref == "" || strings.Contains(ref, "://") {
			return ref
		}
		return client.StorageURL(imageBucket, strings.TrimPrefix(ref, "/"))
	}
	if snap.Profile != nil {
		snap.Profile.LogoURL = resolve(snap.Profile.LogoURL)
		snap.Profile.CoverURL = resolve(snap.Profile.CoverURL)
	}
	for i := range snap.Categories {
		snap.Categories[i].ImageURL = resolve(snap.Categories[i].ImageURL)
	}
	for i := range snap.Items {
		snap.Items[i].ImageURL = resolve(snap.Items[i].ImageURL)
	}
	if snap.Popup != nil {
		snap.Popup.ImageURL = resolve(snap.Popup.ImageURL)
	}
}

func (s *Service) touchLastConnected(record *registry.TenantRecord) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := s.repo.TouchLastConnected(ctx, record.ID, time.Now()); err != nil {
			s.logger.Debug("last_connected_at touch failed",
				zap.String("tenant_id", record.ID.String()), zap.Error(err))
		}
	}()
}
