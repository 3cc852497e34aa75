package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/wallcharts/internal/app/system/apperr"
	"github.com/dalemusser/wallcharts/internal/app/system/respond"
	"github.com/dalemusser/wallcharts/internal/app/system/scope"
	"github.com/dalemusser/wallcharts/internal/domain/models"
	"github.com/gorilla/sessions"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
)

// UserFetcher loads the user behind a session. The role is rebuilt from the
// stored user on every request so a changed department takes effect at once.
type UserFetcher interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

// SessionManager owns the cookie store and the middleware built on it.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager creates a cookie-backed session manager.
//
// In production (secure=true), cookies are Secure + SameSite=None.
// In local dev over http://localhost, use secure=false so cookies are accepted.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// SignIn records the user id in the session cookie.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, userID primitive.ObjectID) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = userID.Hex()
	return sess.Save(r, w)
}

// SignOut clears the session cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.name)
	delete(sess.Values, isAuthKey)
	delete(sess.Values, userIDKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// LoadActor injects the signed-in Actor into the request context. Requests
// without a valid session pass through unchanged; a session whose user no
// longer exists is treated as signed out.
func (sm *SessionManager) LoadActor(users UserFetcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, _ := sm.store.Get(r, sm.name)
			isAuth, _ := sess.Values[isAuthKey].(bool)
			hex, _ := sess.Values[userIDKey].(string)
			if !isAuth || hex == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := primitive.ObjectIDFromHex(hex)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			u, err := users.GetByID(r.Context(), id)
			if err != nil {
				if !errors.Is(err, mongo.ErrNoDocuments) {
					sm.log.Warn("session user lookup failed", zap.String("user_id", hex), zap.Error(err))
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, withActor(r, ActorFor(u)))
		})
	}
}

// RequireSignedIn rejects requests without an Actor with a JSON 401.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentActor(r); !ok {
			respond.Error(w, sm.log, "auth", fmt.Errorf("%w: sign in required", apperr.ErrAuth))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects non-administrators with a JSON 401 or 403.
func (sm *SessionManager) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a, ok := CurrentActor(r)
		if !ok {
			respond.Error(w, sm.log, "auth", fmt.Errorf("%w: sign in required", apperr.ErrAuth))
			return
		}
		if err := scope.RequireAdmin(scope.Resolve(a)); err != nil {
			respond.Error(w, sm.log, "auth", err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| Current-Actor helpers                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

type ctxKey string

const currentActorKey ctxKey = "currentActor"

// ActorFor builds the Actor for a stored user.
func ActorFor(u models.User) scope.Actor {
	return scope.Actor{
		UserID: u.ID,
		Email:  u.Email,
		Role:   scope.RoleFor(u.DepartmentID),
	}
}

// CurrentActor returns the actor & "found?" flag.
func CurrentActor(r *http.Request) (scope.Actor, bool) {
	a, ok := r.Context().Value(currentActorKey).(scope.Actor)
	return a, ok
}

// WithTestActor injects an actor directly, bypassing the session.
func WithTestActor(r *http.Request, a scope.Actor) *http.Request {
	return withActor(r, a)
}

func withActor(r *http.Request, a scope.Actor) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentActorKey, a))
}
