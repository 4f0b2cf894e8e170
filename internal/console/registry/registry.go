// Package registry declares the console's collections: for each one the
// wire record, the form draft with its rule table, the list schema, and
// the wired gateway, store and workflow orchestrator.
package registry

import (
	"fmt"

	"github.com/smoralesdev/labtrack-backend/internal/console/crud"
	"github.com/smoralesdev/labtrack-backend/internal/console/forms"
	"github.com/smoralesdev/labtrack-backend/internal/console/gateway"
	"github.com/smoralesdev/labtrack-backend/internal/console/liststate"
	"github.com/smoralesdev/labtrack-backend/internal/console/listquery"
	"github.com/smoralesdev/labtrack-backend/internal/console/session"
	"github.com/smoralesdev/labtrack-backend/pkg/config"
	"github.com/smoralesdev/labtrack-backend/pkg/logger"
)

// Deps are the shared pieces every collection is built from.
type Deps struct {
	Client   config.ClientConfig
	Session  *session.Store
	Logger   *logger.Logger
	Notifier crud.Notifier
	// Clock feeds the temporal validation rules; nil means wall clock.
	Clock forms.Clock
}

func (d Deps) validate() error {
	if d.Session == nil {
		return fmt.Errorf("session store is required")
	}
	if d.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	return nil
}

func (d Deps) notifier() crud.Notifier {
	if d.Notifier != nil {
		return d.Notifier
	}
	return crud.NewLogNotifier(d.Logger)
}

// Collection bundles everything one CRUD view needs.
type Collection[E, D, R any] struct {
	Gateway *gateway.Gateway[E]
	Store   *liststate.Store[E]
	Crud    *crud.Orchestrator[E, D, R]
	Schema  listquery.Schema[E]
}

// ListOnly bundles a read-only view such as the event log.
type ListOnly[E any] struct {
	Gateway *gateway.Gateway[E]
	Store   *liststate.Store[E]
	Schema  listquery.Schema[E]
}

func newCollection[E, D, R any](
	deps Deps,
	path string,
	id func(E) string,
	schema listquery.Schema[E],
	rules *forms.RuleSet[D, R],
	messages crud.Messages,
) (*Collection[E, D, R], error) {
	gw, err := gateway.New[E](deps.Client, path, deps.Session, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("gateway for %s: %w", path, err)
	}
	store, err := liststate.NewStore[E](gw, id)
	if err != nil {
		return nil, fmt.Errorf("store for %s: %w", path, err)
	}
	form, err := forms.NewController[D, R](rules)
	if err != nil {
		return nil, fmt.Errorf("form for %s: %w", path, err)
	}
	orch, err := crud.New[E, D, R](gw, store, form, deps.notifier(), messages)
	if err != nil {
		return nil, fmt.Errorf("workflow for %s: %w", path, err)
	}
	return &Collection[E, D, R]{Gateway: gw, Store: store, Crud: orch, Schema: schema}, nil
}

func newListOnly[E any](
	deps Deps,
	path string,
	id func(E) string,
	schema listquery.Schema[E],
) (*ListOnly[E], error) {
	gw, err := gateway.New[E](deps.Client, path, deps.Session, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("gateway for %s: %w", path, err)
	}
	store, err := liststate.NewStore[E](gw, id)
	if err != nil {
		return nil, fmt.Errorf("store for %s: %w", path, err)
	}
	return &ListOnly[E]{Gateway: gw, Store: store, Schema: schema}, nil
}

// Console aggregates every collection the console manages.
type Console struct {
	deps Deps

	Instruments *Collection[Instrument, InstrumentDraft, InstrumentRefs]
	Vendors     *Collection[Vendor, VendorDraft, VendorRefs]
	Reagents    *Collection[Reagent, ReagentDraft, ReagentRefs]
	Supplies    *Collection[Supply, SupplyDraft, SupplyRefs]
	Usages      *Collection[Usage, UsageDraft, UsageRefs]
	Rooms       *Collection[Room, RoomDraft, RoomRefs]
	Events      *ListOnly[EventLogEntry]
}

// NewConsole wires every collection against the shared session and
// client configuration.
func NewConsole(deps Deps) (*Console, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	c := &Console{deps: deps}
	var err error

	if c.Instruments, err = newInstrumentCollection(deps); err != nil {
		return nil, err
	}
	if c.Vendors, err = newVendorCollection(deps); err != nil {
		return nil, err
	}
	if c.Reagents, err = newReagentCollection(deps); err != nil {
		return nil, err
	}
	if c.Supplies, err = newSupplyCollection(deps); err != nil {
		return nil, err
	}
	if c.Usages, err = newUsageCollection(deps); err != nil {
		return nil, err
	}
	if c.Rooms, err = newRoomCollection(deps); err != nil {
		return nil, err
	}
	if c.Events, err = newEventList(deps); err != nil {
		return nil, err
	}
	return c, nil
}

// RoomPatients builds the patient collection nested under one room. The
// bundle is per room because the endpoint is.
func (c *Console) RoomPatients(roomID string) (*Collection[Patient, PatientDraft, PatientRefs], error) {
	if roomID == "" {
		return nil, fmt.Errorf("room id is required")
	}
	return newPatientCollection(c.deps, roomID)
}
