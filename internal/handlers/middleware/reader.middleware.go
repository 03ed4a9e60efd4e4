package middleware

import (
	"strings"
	"time"

	. "inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	clientIDCookie = "clientId"
	clientIDMaxAge = 365 * 24 * time.Hour

	userLocalKey   = "user"
	readerLocalKey = "reader"
)

// ReaderContext resolves who is making the request: a signed-in user from a
// bearer session token, or an anonymous client identified by a cookie minted
// on first contact. Every request ends up with a ReaderID in locals; an
// unparseable token just downgrades to anonymous.
func (m *Middleware) ReaderContext() fiber.Handler {
	log := m.log.Function("ReaderContext")

	return func(c *fiber.Ctx) error {
		if userID, ok := m.parseSessionToken(c); ok {
			user, err := m.userRepo.GetByID(c.Context(), m.DB.SQL, userID)
			if err != nil {
				log.Warn("session token for unknown user", "userID", userID, "error", err)
			} else {
				c.Locals(userLocalKey, user)
				c.Locals(readerLocalKey, UserReader(user.ID))
				return c.Next()
			}
		}

		clientID := c.Cookies(clientIDCookie)
		if clientID == "" {
			clientID = uuid.New().String()
			c.Cookie(&fiber.Cookie{
				Name:     clientIDCookie,
				Value:    clientID,
				Expires:  time.Now().Add(clientIDMaxAge),
				HTTPOnly: true,
				SameSite: "Lax",
			})
		}

		c.Locals(readerLocalKey, ClientReader(clientID))
		return c.Next()
	}
}

func (m *Middleware) parseSessionToken(c *fiber.Ctx) (uuid.UUID, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return uuid.Nil, false
	}

	token, err := jwt.Parse(
		strings.TrimPrefix(header, "Bearer "),
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(m.Config.SessionSecret), nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil || !token.Valid {
		return uuid.Nil, false
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, false
	}

	return userID, true
}

// RequireAdmin rejects requests from anyone but a signed-in admin.
func (m *Middleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil || !user.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
			})
		}
		return c.Next()
	}
}

func GetUser(c *fiber.Ctx) *User {
	user, _ := c.Locals(userLocalKey).(*User)
	return user
}

func GetReader(c *fiber.Ctx) ReaderID {
	reader, _ := c.Locals(readerLocalKey).(ReaderID)
	return reader
}
