package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhishaiv/AI-Study-Master/internal/screen"
)

// View names one of the application views.
type View string

const (
	ViewDashboard  View = "dashboard"
	ViewTopic      View = "topic"
	ViewQuiz       View = "quiz"
	ViewChat       View = "chat"
	ViewAssignment View = "assignment"
)

// Route addresses a view, with a topic id for the topic and quiz views.
type Route struct {
	View    View
	TopicID string
}

// NavigateMsg requests navigation to a route.
type NavigateMsg struct {
	Route Route
}

// Navigate returns a command that emits a NavigateMsg.
func Navigate(view View, topicID string) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Route: Route{View: view, TopicID: topicID}}
	}
}

// PushScreenMsg requests the router to push a new screen onto the stack.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg requests the router to pop the current screen off the stack.
type PopScreenMsg struct{}

// ReplaceScreenMsg requests the router to swap the top screen.
type ReplaceScreenMsg struct {
	Screen screen.Screen
}

// Resolver builds the screen for a route. Routes it cannot serve, such as
// unknown topic ids, resolve to a not-found screen.
type Resolver func(Route) screen.Screen

// Router manages a stack of screens. The bottom screen is the dashboard;
// every other view sits directly above it.
type Router struct {
	stack   []screen.Screen
	resolve Resolver
}

// Option configures a Router.
type Option func(*Router)

// WithResolver sets how NavigateMsg routes become screens.
func WithResolver(fn Resolver) Option {
	return func(r *Router) { r.resolve = fn }
}

// New creates a new Router with the given initial screen.
func New(initial screen.Screen, opts ...Option) *Router {
	r := &Router{
		stack: []screen.Screen{initial},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Push adds a screen on top of the stack and calls its Init().
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop removes the top screen. No-op if stack depth would become 0.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) <= 1 {
		return nil
	}
	unmount(r.stack[len(r.stack)-1])
	r.stack = r.stack[:len(r.stack)-1]
	return resume(r.Active())
}

// Replace swaps the top screen for s and calls its Init().
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	unmount(r.stack[len(r.stack)-1])
	r.stack[len(r.stack)-1] = s
	return s.Init()
}

// PopToRoot removes every screen above the bottom one.
func (r *Router) PopToRoot() tea.Cmd {
	if len(r.stack) <= 1 {
		return nil
	}
	for i := len(r.stack) - 1; i > 0; i-- {
		unmount(r.stack[i])
	}
	r.stack = r.stack[:1]
	return resume(r.Active())
}

// Navigate shows the screen for route. The dashboard is the root; other
// views replace whatever sits above it. Routes the resolver cannot build
// fall back to the dashboard.
func (r *Router) Navigate(route Route) tea.Cmd {
	if route.View == ViewDashboard || r.resolve == nil {
		return r.PopToRoot()
	}
	s := r.resolve(route)
	if s == nil {
		return r.PopToRoot()
	}
	if len(r.stack) > 1 {
		return r.Replace(s)
	}
	return r.Push(s)
}

// Active returns the top screen on the stack.
func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

// Depth returns the number of screens on the stack.
func (r *Router) Depth() int {
	return len(r.stack)
}

// Update forwards a message to the active screen and handles navigation messages.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NavigateMsg:
		return r.Navigate(msg.Route)
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	case ReplaceScreenMsg:
		return r.Replace(msg.Screen)
	}

	active := r.Active()
	if active == nil {
		return nil
	}

	updated, cmd := active.Update(msg)
	r.stack[len(r.stack)-1] = updated
	return cmd
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	active := r.Active()
	if active == nil {
		return ""
	}
	return active.View(width, height)
}

func unmount(s screen.Screen) {
	if u, ok := s.(screen.Unmounter); ok {
		u.Unmount()
	}
}

func resume(s screen.Screen) tea.Cmd {
	if rs, ok := s.(screen.Resumer); ok {
		return rs.Resume()
	}
	return nil
}
