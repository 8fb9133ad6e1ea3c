package auth

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/GSOC-Innovators-Club/Appointment-Letter/directory"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/models"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/utils"
)

// Authenticator is the slice of the identity provider the controller needs
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*directory.Session, error)
}

// Finder resolves a directory record for a verified email
type Finder interface {
	FindByEmail(ctx context.Context, email string) (*models.Member, error)
}

// Controller owns the process-wide authenticated identity. Exactly one
// identity is active per running instance. Readers obtain state through
// Current or a subscription, never by inspecting shared memory; every change
// is pushed to all subscribers.
type Controller struct {
	provider Authenticator
	finder   Finder
	dataDir  string

	mu          sync.RWMutex
	identity    models.Identity
	session     *directory.Session
	subscribers map[int]func(models.Identity)
	nextSubID   int
}

// NewController creates the session controller. dataDir holds the persisted
// session token used for restore; it may be empty to disable persistence.
func NewController(provider Authenticator, finder Finder, dataDir string) *Controller {
	return &Controller{
		provider:    provider,
		finder:      finder,
		dataDir:     dataDir,
		identity:    models.Identity{Loading: true},
		subscribers: make(map[int]func(models.Identity)),
	}
}

// Current returns the identity as of this call. Actions must re-check it on
// every invocation rather than caching the result.
func (c *Controller) Current() models.Identity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identity
}

// Subscribe registers fn to be called with every identity change, and once
// immediately with the current state. The returned func removes the
// subscription.
func (c *Controller) Subscribe(fn func(models.Identity)) func() {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	current := c.identity
	c.mu.Unlock()

	fn(current)

	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

// publish replaces the identity and notifies all subscribers
func (c *Controller) publish(identity models.Identity, session *directory.Session) {
	c.mu.Lock()
	c.identity = identity
	c.session = session
	fns := make([]func(models.Identity), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(identity)
	}
}

// Login authenticates the credential pair and resolves the member record for
// the verified email. An authenticated user with no directory record is
// logged and left unauthenticated; the gate then refuses everything
// (fail-closed).
func (c *Controller) Login(ctx context.Context, email, regNo string) error {
	email = strings.TrimSpace(email)
	regNo = strings.TrimSpace(regNo)
	if email == "" || regNo == "" {
		return utils.BadRequestError("Email and registration number are required", nil)
	}

	session, err := c.provider.SignIn(ctx, email, regNo)
	if err != nil {
		return err
	}

	member, err := c.finder.FindByEmail(ctx, session.Email)
	if err != nil {
		return err
	}
	if member == nil {
		utils.Log.Error("User %s signed in but no directory profile found", session.Email)
		c.publish(models.Identity{}, nil)
		return nil
	}

	c.publish(models.Identity{Member: member, Authenticated: true}, session)
	c.persistSession(session)
	utils.Log.Info("Member %s signed in", member.RegNo)
	return nil
}

// Logout clears the identity and the persisted session
func (c *Controller) Logout(ctx context.Context) {
	c.publish(models.Identity{}, nil)
	c.clearPersistedSession()
	utils.Log.Info("Signed out")
}

// Restore re-establishes the identity from a persisted session on process
// start. It always settles the loading flag, authenticated or not.
func (c *Controller) Restore(ctx context.Context) {
	session := c.loadPersistedSession()
	if session == nil || session.Expired() {
		c.publish(models.Identity{}, nil)
		c.clearPersistedSession()
		return
	}

	member, err := c.finder.FindByEmail(ctx, session.Email)
	if err != nil || member == nil {
		if err != nil {
			utils.Log.Warn("Session restore failed resolving profile: %v", err)
		} else {
			utils.Log.Error("User %s restored a session but no directory profile found", session.Email)
		}
		c.publish(models.Identity{}, nil)
		c.clearPersistedSession()
		return
	}

	c.publish(models.Identity{Member: member, Authenticated: true}, session)
	utils.Log.Info("Restored session for member %s", member.RegNo)
}

func (c *Controller) sessionPath() string {
	if c.dataDir == "" {
		return ""
	}
	return filepath.Join(c.dataDir, "session.json")
}

func (c *Controller) persistSession(session *directory.Session) {
	path := c.sessionPath()
	if path == "" {
		return
	}
	if err := utils.SaveCache(path, session); err != nil {
		utils.Log.Warn("Failed to persist session: %v", err)
	}
}

func (c *Controller) loadPersistedSession() *directory.Session {
	path := c.sessionPath()
	if path == "" {
		return nil
	}
	var session directory.Session
	if err := utils.LoadCache(path, &session); err != nil {
		return nil
	}
	return &session
}

func (c *Controller) clearPersistedSession() {
	path := c.sessionPath()
	if path == "" {
		return
	}
	os.Remove(path)
}
