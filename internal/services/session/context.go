package session

import (
	"sync"

	"github.com/mcoot/memgame-go/internal/model"
)

// Context carries the signed-in profile and the pending resume request
// between screens. There is one per process.
type Context struct {
	mu              sync.Mutex
	current         *model.Profile
	resumeRequested bool
}

// New creates an empty session Context
func New() *Context {
	return &Context{}
}

// SignIn makes p the current user and drops any earlier resume request
func (c *Context) SignIn(p *model.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = p
	c.resumeRequested = false
}

// SignOut clears the current user
func (c *Context) SignOut() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = nil
	c.resumeRequested = false
}

// CurrentUser returns the signed-in profile, or nil
func (c *Context) CurrentUser() *model.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Replace swaps in a fresher copy of the current user. It does nothing when
// p is a different user.
func (c *Context) Replace(p *model.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil && p != nil && model.SameUsername(c.current.Username, p.Username) {
		c.current = p
	}
}

// RequestResume sets whether the next round should continue the saved game
func (c *Context) RequestResume(resume bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resumeRequested = resume
}

// ConsumeResume returns the resume request and clears it
func (c *Context) ConsumeResume() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	resume := c.resumeRequested
	c.resumeRequested = false
	return resume
}
