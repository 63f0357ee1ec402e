package web

import (
	"encoding/json"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/marquee-app/marquee/internal/notify"
	"github.com/marquee-app/marquee/internal/session"
	"github.com/marquee-app/marquee/internal/storage"
)

const (
	sessionName = "marquee_session"
	accessorKey = "session_accessor"
)

// cookieStore exposes the request's cookie session as local storage.
// Changes are written back by commit, once per response.
type cookieStore struct {
	sess sessions.Session
}

func (s cookieStore) Get(key string) (string, error) {
	value, ok := s.sess.Get(key).(string)
	if !ok {
		return "", storage.ErrNotFound
	}
	return value, nil
}

func (s cookieStore) Set(key, value string) error {
	s.sess.Set(key, value)
	return nil
}

func (s cookieStore) Delete(key string) error {
	s.sess.Delete(key)
	return nil
}

// sessionState builds the per-request accessor and carries it on the request
// context for the API client
func (s *Server) sessionState() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessor := session.NewAccessor(cookieStore{sess: sessions.Default(c)}, s.logger)
		c.Set(accessorKey, accessor)
		c.Request = c.Request.WithContext(session.WithState(c.Request.Context(), accessor))
		c.Next()
	}
}

func accessorFrom(c *gin.Context) *session.Accessor {
	return c.MustGet(accessorKey).(*session.Accessor)
}

// commit saves pending session changes; call before writing the response
func (s *Server) commit(c *gin.Context) {
	if err := sessions.Default(c).Save(); err != nil {
		s.logger.Error().Err(err).Msg("Failed to save session")
	}
}

// flashSink queues notifications in one request's cookie session; they are
// rendered by the next page the browser loads
type flashSink struct {
	sess sessions.Session
}

func (f flashSink) Deliver(n notify.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	f.sess.AddFlash(string(data))
	return nil
}

// toast emits a notification to the shared sinks and to this request's session
func (s *Server) toast(c *gin.Context, typ, message string) {
	if _, err := s.notifier.OpenWith(typ, message, flashSink{sess: sessions.Default(c)}); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to emit notification")
	}
}

// pendingToasts pops queued notifications from the session
func (s *Server) pendingToasts(c *gin.Context) []notify.Notification {
	flashes := sessions.Default(c).Flashes()

	toasts := make([]notify.Notification, 0, len(flashes))
	for _, f := range flashes {
		raw, ok := f.(string)
		if !ok {
			continue
		}
		var note notify.Notification
		if err := json.Unmarshal([]byte(raw), &note); err != nil {
			s.logger.Debug().Err(err).Msg("Dropping malformed notification")
			continue
		}
		toasts = append(toasts, note)
	}
	return toasts
}
