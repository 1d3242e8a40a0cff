package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"hrsuite/internal/localstore"
	"hrsuite/internal/logger"
	"hrsuite/internal/provider"
	"hrsuite/internal/repository"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

var ErrInvalidDeviceID = errors.New("invalid device id")

var deviceIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

// ValidDeviceID reports whether id can name an application instance
func ValidDeviceID(id string) bool {
	return deviceIDPattern.MatchString(id)
}

// Instance is one running application: its local state, provider client,
// resolver and auth operations.
type Instance struct {
	DeviceID string
	Local    localstore.Store
	Provider *provider.Client
	Resolver *Resolver
	Auth     *Service
}

type RegistryConfig struct {
	Size     int
	TTL      time.Duration // zero keeps instances until evicted by size
	DemoMode bool
}

// Registry creates instances on first use and keeps the recently used ones.
// Everything an instance needs to come back is in its local store, so an
// evicted instance is rebuilt with the same identity.
type Registry struct {
	cfg      RegistryConfig
	store    localstore.Namespacer
	backend  *provider.Backend
	profiles repository.ProfileRepository
	audit    repository.AuditRepository
	notifier Notifier
	log      *logger.Logger

	// starting collapses concurrent first requests per device
	starting singleflight.Group
	cache    *expirable.LRU[string, *Instance]
}

func NewRegistry(cfg RegistryConfig, store localstore.Namespacer, backend *provider.Backend,
	profiles repository.ProfileRepository, audit repository.AuditRepository, notifier Notifier, log *logger.Logger) *Registry {
	if cfg.Size <= 0 {
		cfg.Size = 1024
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}

	r := &Registry{
		cfg:      cfg,
		store:    store,
		backend:  backend,
		profiles: profiles,
		audit:    audit,
		notifier: notifier,
		log:      log,
	}
	r.cache = expirable.NewLRU[string, *Instance](cfg.Size, func(deviceID string, inst *Instance) {
		inst.Resolver.Stop()
		r.log.Debugf("instance evicted", map[string]interface{}{"device": deviceID})
	}, cfg.TTL)
	return r
}

// Get returns the instance for deviceID, creating and starting it if needed
func (r *Registry) Get(ctx context.Context, deviceID string) (*Instance, error) {
	if !ValidDeviceID(deviceID) {
		return nil, ErrInvalidDeviceID
	}
	if inst, ok := r.cache.Get(deviceID); ok {
		return inst, nil
	}

	v, err, _ := r.starting.Do(deviceID, func() (interface{}, error) {
		if inst, ok := r.cache.Get(deviceID); ok {
			return inst, nil
		}

		inst := r.build(deviceID)
		// detached from the first caller's cancellation, every waiter shares the result
		if err := inst.Resolver.Start(context.WithoutCancel(ctx)); err != nil {
			inst.Resolver.Stop()
			return nil, fmt.Errorf("start session resolver: %w", err)
		}
		r.cache.Add(deviceID, inst)
		return inst, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Instance), nil
}

// Len reports how many instances are live
func (r *Registry) Len() int {
	return r.cache.Len()
}

// Purge stops and drops every instance
func (r *Registry) Purge() {
	r.cache.Purge()
}

func (r *Registry) build(deviceID string) *Instance {
	log := r.log.WithField("device", deviceID)
	local := r.store.Namespace("device:" + deviceID + ":")
	client := provider.NewClient(r.backend, local, log)
	resolver := NewResolver(local, client, r.profiles, log)
	resolver.OnChange(func(s *Session) {
		r.notifier.SessionChanged(deviceID, s)
	})

	return &Instance{
		DeviceID: deviceID,
		Local:    local,
		Provider: client,
		Resolver: resolver,
		Auth:     NewService(deviceID, r.cfg.DemoMode, local, client, resolver, r.profiles, r.audit, r.notifier, r.log),
	}
}
