package client

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"pixelnote/apperr"
	"pixelnote/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrInFlight is returned when an entry already has a save or delete
	// waiting on the server.
	ErrInFlight = errors.New("operation already in flight")
	// ErrSessionExpired means the server rejected the token. The
	// controller has dropped its session and items; log in again.
	ErrSessionExpired = errors.New("session expired")
	// ErrUnknownEntry means no entry has the given key.
	ErrUnknownEntry = errors.New("unknown entry")
)

const pendingPrefix = "temp-"

type State int

const (
	StatePending State = iota
	StateSaving
	StatePersisted
	StateDeleting
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSaving:
		return "saving"
	case StatePersisted:
		return "persisted"
	case StateDeleting:
		return "deleting"
	}
	return "state(" + strconv.Itoa(int(s)) + ")"
}

// Entry is one item as the client sees it. Pending entries have a
// temp-<uuid> key and a zero Item.ID.
type Entry struct {
	Key   string
	State State
	Item  models.Item
}

// Pending reports whether the entry has never been persisted.
func (e Entry) Pending() bool {
	return e.Item.ID == 0
}

// Variant is the entry's explicit type tag.
func (e Entry) Variant() models.Variant {
	return e.Item.Type
}

// PersistedKey names a stored item. Ids are unique only within a
// collection, so the collection is part of the key.
func PersistedKey(variant models.Variant, id uint) string {
	return variant.Collection() + "/" + strconv.FormatUint(uint64(id), 10)
}

// Controller reconciles the local item list with the server. It is safe
// for concurrent use; network calls run without the lock held.
type Controller struct {
	api API

	mu       sync.Mutex
	token    string
	user     *models.UserSummary
	entries  []*Entry
	selected string
}

func NewController(api API) *Controller {
	return &Controller{api: api}
}

// Register creates an account. It does not log in.
func (c *Controller) Register(ctx context.Context, email, password string) (uint, error) {
	return c.api.Register(ctx, email, password)
}

// Login stores the session token. Items are not fetched until Load.
func (c *Controller) Login(ctx context.Context, email, password string) (models.UserSummary, error) {
	resp, err := c.api.Login(ctx, email, password)
	if err != nil {
		return models.UserSummary{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
	c.token = resp.Token
	user := resp.User
	c.user = &user
	return user, nil
}

// Restore resumes a session from a stored token after checking it.
func (c *Controller) Restore(ctx context.Context, token string) (models.UserSummary, error) {
	user, err := c.api.Verify(ctx, token)
	if err != nil {
		if isSessionError(err) {
			return models.UserSummary{}, fmt.Errorf("%w: %w", ErrSessionExpired, err)
		}
		return models.UserSummary{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
	c.token = token
	c.user = user
	return *user, nil
}

// Logout revokes the token on the server and always clears local state.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	token := c.token
	c.resetLocked()
	c.mu.Unlock()

	if token == "" {
		return nil
	}
	err := c.api.Logout(ctx, token)
	if isSessionError(err) {
		return nil
	}
	return err
}

// Token returns the current session token, empty when logged out.
func (c *Controller) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// User returns the logged in user.
func (c *Controller) User() (models.UserSummary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return models.UserSummary{}, false
	}
	return *c.user, true
}

func (c *Controller) resetLocked() {
	c.token = ""
	c.user = nil
	c.entries = nil
	c.selected = ""
}

func isSessionError(err error) bool {
	return errors.Is(err, apperr.ErrUnauthenticated) || errors.Is(err, apperr.ErrInvalidToken)
}

// failLocked turns a rejected token into ErrSessionExpired after dropping
// the session. token guards against clearing a newer session.
func (c *Controller) failLocked(token string, err error) error {
	if !isSessionError(err) {
		return err
	}
	if c.token == token {
		c.resetLocked()
	}
	return fmt.Errorf("%w: %w", ErrSessionExpired, err)
}

func (c *Controller) sessionLocked() (string, error) {
	if c.token == "" {
		return "", apperr.ErrUnauthenticated
	}
	return c.token, nil
}

// Load fetches every collection in parallel and replaces the persisted
// entries, newest first. Pending entries stay in front.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	token, err := c.sessionLocked()
	c.mu.Unlock()
	if err != nil {
		return err
	}

	variants := models.Variants()
	results := make([][]models.Item, len(variants))
	g, gCtx := errgroup.WithContext(ctx)
	for i, variant := range variants {
		g.Go(func() error {
			items, err := c.api.List(gCtx, token, variant)
			if err != nil {
				return err
			}
			results[i] = items
			return nil
		})
	}
	err = g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		return c.failLocked(token, err)
	}
	if c.token != token {
		return ErrSessionExpired
	}

	// Stored entries with a save or delete in flight keep their state and
	// local fields until that call returns.
	inFlight := map[string]*Entry{}
	for _, e := range c.entries {
		if !e.Pending() && (e.State == StateSaving || e.State == StateDeleting) {
			inFlight[e.Key] = e
		}
	}

	var persisted []*Entry
	for i, items := range results {
		for _, item := range items {
			item.Type = variants[i]
			key := PersistedKey(item.Type, item.ID)
			if e, ok := inFlight[key]; ok {
				persisted = append(persisted, e)
				delete(inFlight, key)
				continue
			}
			persisted = append(persisted, &Entry{
				Key:   key,
				State: StatePersisted,
				Item:  item,
			})
		}
	}
	for _, e := range inFlight {
		persisted = append(persisted, e)
	}
	sort.SliceStable(persisted, func(a, b int) bool {
		return persisted[a].Item.CreatedAt.After(persisted[b].Item.CreatedAt)
	})

	var entries []*Entry
	for _, e := range c.entries {
		if e.Pending() {
			entries = append(entries, e)
		}
	}
	c.entries = append(entries, persisted...)

	if c.selected != "" && c.findLocked(c.selected) < 0 {
		c.selected = ""
	}
	return nil
}

// AddPending adds an unsaved item in front of the list and selects it.
func (c *Controller) AddPending(variant models.Variant, fields models.ItemFields) (Entry, error) {
	if !variant.Valid() {
		return Entry{}, fmt.Errorf("unknown variant %q", variant)
	}

	e := &Entry{
		Key:   pendingPrefix + uuid.NewString(),
		State: StatePending,
		Item:  models.Item{Type: variant},
	}
	apply(&e.Item, fields)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append([]*Entry{e}, c.entries...)
	c.selected = e.Key
	return *e, nil
}

// apply copies the set fields the item's variant allows.
func apply(item *models.Item, fields models.ItemFields) {
	variant := item.Type
	if fields.Title != nil {
		item.Title = *fields.Title
	}
	if fields.Content != nil {
		item.Content = *fields.Content
	}
	if fields.Date != nil && variant.Allows(models.FieldDate) {
		date := *fields.Date
		item.Date = &date
	}
	if fields.Image != nil && variant.Allows(models.FieldImage) {
		image := *fields.Image
		item.Image = &image
	}
}

// writable returns the fields sent to the server for item.
func writable(item models.Item) models.ItemFields {
	title, content := item.Title, item.Content
	fields := models.ItemFields{Title: &title, Content: &content}
	if item.Type.Allows(models.FieldDate) && item.Date != nil {
		date := *item.Date
		fields.Date = &date
	}
	if item.Type.Allows(models.FieldImage) && item.Image != nil {
		image := *item.Image
		fields.Image = &image
	}
	return fields
}

// Edit changes local fields. Nothing is sent until Save.
func (c *Controller) Edit(key string, fields models.ItemFields) (Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.findLocked(key)
	if i < 0 {
		return Entry{}, ErrUnknownEntry
	}
	e := c.entries[i]
	if e.State == StateSaving || e.State == StateDeleting {
		return Entry{}, ErrInFlight
	}
	apply(&e.Item, fields)
	return *e, nil
}

// Save persists the entry. A pending entry is created and swapped in place
// for the stored item. A persisted entry is updated.
func (c *Controller) Save(ctx context.Context, key string) (Entry, error) {
	c.mu.Lock()
	token, err := c.sessionLocked()
	if err != nil {
		c.mu.Unlock()
		return Entry{}, err
	}
	i := c.findLocked(key)
	if i < 0 {
		c.mu.Unlock()
		return Entry{}, ErrUnknownEntry
	}
	e := c.entries[i]
	if e.State == StateSaving || e.State == StateDeleting {
		c.mu.Unlock()
		return Entry{}, ErrInFlight
	}
	previous := e.State
	e.State = StateSaving
	item := e.Item
	c.mu.Unlock()

	var saved *models.Item
	if previous == StatePending {
		saved, err = c.api.Create(ctx, token, item.Type, writable(item))
	} else {
		saved, err = c.api.Update(ctx, token, item.Type, item.ID, writable(item))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		if i := c.findLocked(key); i >= 0 {
			c.entries[i].State = previous
		}
		return Entry{}, c.failLocked(token, err)
	}

	saved.Type = item.Type
	persisted := &Entry{
		Key:   PersistedKey(saved.Type, saved.ID),
		State: StatePersisted,
		Item:  *saved,
	}

	// A Load during create may already list the stored row.
	if i, j := c.findLocked(key), c.findLocked(persisted.Key); i >= 0 && j >= 0 && i != j {
		if c.selected == persisted.Key {
			c.selected = key
		}
		c.entries = append(c.entries[:j], c.entries[j+1:]...)
	}

	if i := c.findLocked(key); i >= 0 {
		c.entries[i] = persisted
	} else if c.findLocked(persisted.Key) < 0 && c.token == token {
		// Gone from the list meanwhile; keep what the server stored.
		c.entries = append([]*Entry{persisted}, c.entries...)
	}
	if c.selected == key {
		c.selected = persisted.Key
	}
	return *persisted, nil
}

// Delete removes the entry. Pending entries are dropped locally. Persisted
// ones are removed only once the server confirms.
func (c *Controller) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	i := c.findLocked(key)
	if i < 0 {
		c.mu.Unlock()
		return ErrUnknownEntry
	}
	e := c.entries[i]
	switch e.State {
	case StateSaving, StateDeleting:
		c.mu.Unlock()
		return ErrInFlight
	case StatePending:
		c.removeLocked(i)
		c.mu.Unlock()
		return nil
	}

	token, err := c.sessionLocked()
	if err != nil {
		c.mu.Unlock()
		return err
	}
	e.State = StateDeleting
	item := e.Item
	c.mu.Unlock()

	err = c.api.Delete(ctx, token, item.Type, item.ID)

	c.mu.Lock()
	defer c.mu.Unlock()
	i = c.findLocked(key)
	if err != nil {
		if i >= 0 {
			c.entries[i].State = StatePersisted
		}
		return c.failLocked(token, err)
	}
	if i >= 0 {
		c.removeLocked(i)
	}
	return nil
}

func (c *Controller) removeLocked(i int) {
	if c.entries[i].Key == c.selected {
		c.selected = ""
	}
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
}

func (c *Controller) findLocked(key string) int {
	for i, e := range c.entries {
		if e.Key == key {
			return i
		}
	}
	return -1
}

// Select points the selection at key. An empty key clears it.
func (c *Controller) Select(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if key != "" && c.findLocked(key) < 0 {
		return ErrUnknownEntry
	}
	c.selected = key
	return nil
}

// Selected returns the selected entry, if any.
func (c *Controller) Selected() (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.findLocked(c.selected)
	if i < 0 {
		return Entry{}, false
	}
	return *c.entries[i], true
}

// Entry returns a copy of the entry under key.
func (c *Controller) Entry(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.findLocked(key)
	if i < 0 {
		return Entry{}, false
	}
	return *c.entries[i], true
}

// Entries returns a snapshot of the list in display order.
func (c *Controller) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = *e
	}
	return out
}
