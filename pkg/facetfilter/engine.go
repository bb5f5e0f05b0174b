// Package facetfilter provides a public Go API for the filter engine behind
// a faceted "filter data" search box.
//
// An Engine holds a dataset and the shared filter state. Within a category
// an entity matches if it takes any of the active values; across categories
// it must match every category that has an active value.
//
// Basic usage:
//
//	eng, err := facetfilter.Load("samples.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, c := range eng.Search("bra", false) {
//	    fmt.Println(c.Label) // country → Brazil
//	}
//
//	_, _ = eng.AddFilter("country", "Brazil")
//	fmt.Println(eng.VisibleNames())
//
// Observers registered with Subscribe are called synchronously after every
// change, with the previous and the current state.
package facetfilter

import (
	"errors"
	"io"
	"log/slog"

	"github.com/hupe1980/facetfilter/internal/dataset"
	"github.com/hupe1980/facetfilter/internal/filter"
	"github.com/hupe1980/facetfilter/internal/store"
)

// Re-exported engine types.
type (
	// Entity is a record being filtered.
	Entity = dataset.Entity
	// Dataset is a loaded set of entities plus their value counts.
	Dataset = dataset.Dataset
	// ActiveSet is an immutable filter state.
	ActiveSet = filter.ActiveSet
	// Entry is one value of a category in an ActiveSet.
	Entry = filter.Entry
	// Candidate is an option that can be added to the filters.
	Candidate = filter.Candidate
	// Summary lists the filters in use.
	Summary = filter.Summary
	// Badge describes one category in use.
	Badge = filter.Badge
	// Validity decides whether a value may be offered as an option.
	Validity = filter.Validity
	// Observer is notified of state changes.
	Observer = store.Observer
	// ObserverFunc adapts a function to Observer.
	ObserverFunc = store.ObserverFunc
)

// DefaultIdentityCategory is the category matched against entity names
// unless the dataset or WithIdentityCategory names another one.
const DefaultIdentityCategory = filter.DefaultIdentityCategory

// ErrNilDataset is returned by New when no dataset is given.
var ErrNilDataset = errors.New("dataset must not be nil")

// NewActiveSet returns an empty filter state.
func NewActiveSet() ActiveSet { return filter.NewActiveSet() }

// Option configures an Engine.
type Option func(*options)

type options struct {
	validity filter.Validity
	identity string
	initial  *filter.ActiveSet
	logger   *slog.Logger
}

// WithValidity replaces the placeholder check used for option enumeration.
func WithValidity(v Validity) Option { return func(o *options) { o.validity = v } }

// WithInvalidValues treats values as placeholders in addition to the
// built-in ones such as "unknown" and "n/a".
func WithInvalidValues(values ...string) Option {
	return func(o *options) { o.validity = filter.NewValidity(values...) }
}

// WithIdentityCategory sets the identity category. It takes precedence over
// the one named by the dataset.
func WithIdentityCategory(c string) Option { return func(o *options) { o.identity = c } }

// WithInitialState starts the engine with state instead of an empty set.
func WithInitialState(state ActiveSet) Option {
	return func(o *options) { o.initial = &state }
}

// WithLogger sets the logger for state changes.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// Engine evaluates filters over one dataset. It is safe for concurrent use.
type Engine struct {
	data     *dataset.Dataset
	leaves   []*dataset.Entity
	identity string
	valid    filter.Validity
	store    *store.Store
}

// New creates an engine over data.
func New(data *Dataset, opts ...Option) (*Engine, error) {
	if data == nil {
		return nil, ErrNilDataset
	}

	o := &options{
		validity: filter.DefaultValidity,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(o)
	}

	identity := o.identity
	if identity == "" {
		identity = data.IdentityCategory
	}

	if identity == "" {
		identity = DefaultIdentityCategory
	}

	storeOpts := []store.Option{store.WithLogger(o.logger)}
	if o.initial != nil {
		storeOpts = append(storeOpts, store.WithState(*o.initial))
	}

	return &Engine{
		data:     data,
		leaves:   data.Leaves(),
		identity: identity,
		valid:    o.validity,
		store:    store.New(storeOpts...),
	}, nil
}

// Load reads a dataset file and creates an engine over it.
func Load(path string, opts ...Option) (*Engine, error) {
	data, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}

	return New(data, opts...)
}

// Parse decodes a YAML or JSON dataset and creates an engine over it.
func Parse(raw []byte, opts ...Option) (*Engine, error) {
	data, err := dataset.Parse(raw)
	if err != nil {
		return nil, err
	}

	return New(data, opts...)
}

// Dataset returns the dataset the engine evaluates.
func (e *Engine) Dataset() *Dataset { return e.data }

// IdentityCategory returns the category matched against entity names.
func (e *Engine) IdentityCategory() string { return e.identity }

// State returns the current filter state.
func (e *Engine) State() ActiveSet { return e.store.State() }

// Candidates lists the options that are not active yet. Entity names are
// included when includeIdentity is set or the identity category is in use.
func (e *Engine) Candidates(includeIdentity bool) []Candidate {
	return filter.CandidateOptions(filter.OptionsInput{
		Active:          e.store.State(),
		Counts:          e.data.Counts,
		Valid:           e.valid,
		Identity:        e.identity,
		Leaves:          e.data.LeafNames(),
		IncludeIdentity: includeIdentity,
	})
}

// Search returns the candidates whose label contains query, ignoring case.
func (e *Engine) Search(query string, includeIdentity bool) []Candidate {
	return filter.Search(e.Candidates(includeIdentity), query)
}

// AddFilter activates value in category. It reports whether the state
// changed.
func (e *Engine) AddFilter(category, value string) (bool, error) {
	return e.store.Dispatch(store.AddFilter(category, value))
}

// SetCategory replaces the entries of category with values.
func (e *Engine) SetCategory(category string, values ...string) (bool, error) {
	return e.store.Dispatch(store.SetCategory(category, values...))
}

// ClearCategory removes every entry of category, keeping the category.
func (e *Engine) ClearCategory(category string) (bool, error) {
	return e.store.Dispatch(store.ClearCategory(category))
}

// Reset replaces the whole filter state.
func (e *Engine) Reset(state ActiveSet) bool {
	return e.store.Replace(state)
}

// IsVisible reports whether entity passes the current filters.
func (e *Engine) IsVisible(entity *Entity) bool {
	return filter.NewEvaluator(e.store.State(), filter.WithIdentityCategory(e.identity)).Visible(entity)
}

// Visible returns the leaf entities that pass the current filters, in
// dataset order.
func (e *Engine) Visible() []*Entity {
	ev := filter.NewEvaluator(e.store.State(), filter.WithIdentityCategory(e.identity))

	visible := make([]*Entity, 0, len(e.leaves))
	for _, leaf := range e.leaves {
		if ev.Visible(leaf) {
			visible = append(visible, leaf)
		}
	}

	return visible
}

// VisibleNames returns the names of the visible leaf entities.
func (e *Engine) VisibleNames() []string {
	visible := e.Visible()
	names := make([]string, len(visible))

	for i, v := range visible {
		names[i] = v.Name
	}

	return names
}

// Summary describes the filters in use.
func (e *Engine) Summary() Summary {
	return filter.Summarise(e.store.State(), e.identity)
}

// Subscribe registers o for state changes and returns a function that
// removes it. Observers may read State but must not change the filters.
func (e *Engine) Subscribe(o Observer) func() {
	return e.store.Subscribe(o)
}
