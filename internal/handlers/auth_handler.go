package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"prepstage/interview-api/internal/models"
	"prepstage/interview-api/internal/repositories"
	"prepstage/interview-api/internal/services"
)

const (
	sessionUserKey  = "user_id"
	sessionStateKey = "oauth_state"
)

type AuthHandler struct {
	userRepo repositories.UserRepository
	oauth    services.GitHubOAuthService
	store    *session.Store
}

func NewAuthHandler(
	userRepo repositories.UserRepository,
	oauth services.GitHubOAuthService,
	store *session.Store,
) *AuthHandler {
	return &AuthHandler{
		userRepo: userRepo,
		oauth:    oauth,
		store:    store,
	}
}

// HandleLogin handles GET /login/github
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to open session")
	}

	state := uuid.New().String()
	sess.Set(sessionStateKey, state)
	if err := sess.Save(); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to save session")
	}

	return c.Redirect(h.oauth.AuthorizeURL(state), fiber.StatusFound)
}

// HandleCallback handles GET /login/callback
func (h *AuthHandler) HandleCallback(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to open session")
	}

	state := c.Query("state")
	if saved, _ := sess.Get(sessionStateKey).(string); saved == "" || saved != state {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid OAuth state",
		})
	}
	sess.Delete(sessionStateKey)

	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing authorization code",
		})
	}

	token, err := h.oauth.ExchangeCode(c.Context(), code)
	if err != nil {
		log.Printf("❌ OAuth callback failed: %v\n", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "GitHub login failed. Please try again.",
		})
	}

	ghUser, err := h.oauth.FetchUser(c.Context(), token)
	if err != nil {
		log.Printf("❌ OAuth user fetch failed: %v\n", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "GitHub login failed. Please try again.",
		})
	}

	// Users are created lazily on first successful login.
	user, err := h.userRepo.FindByUsername(ghUser.Login)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &models.User{
			ID:        uuid.New(),
			Username:  ghUser.Login,
			Email:     ghUser.Email,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := h.userRepo.Create(user); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to create user",
			})
		}
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to look up user",
		})
	}

	sess.Set(sessionUserKey, user.ID.String())
	if err := sess.Save(); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to save session")
	}

	return c.Redirect("/home", fiber.StatusFound)
}

// HandleLogout handles GET /logout
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err == nil {
		if err := sess.Destroy(); err != nil {
			log.Printf("⚠️  Failed to destroy session: %v\n", err)
		}
	}

	return c.Redirect("/login/github", fiber.StatusFound)
}

// RequireAuth guards routes behind a logged-in session and stashes the
// caller's user id in locals.
func (h *AuthHandler) RequireAuth(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to open session")
	}

	raw, _ := sess.Get(sessionUserKey).(string)
	if raw == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Login required",
			"login": "/login/github",
		})
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Login required",
			"login": "/login/github",
		})
	}

	c.Locals(sessionUserKey, userID)
	return c.Next()
}

// CurrentUserID reads the authenticated caller's id set by RequireAuth.
func CurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	userID, ok := c.Locals(sessionUserKey).(uuid.UUID)
	return userID, ok
}
