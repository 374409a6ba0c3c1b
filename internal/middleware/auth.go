package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shaynlink/y-posts-service/internal/authorization"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserIDKey is the echo context key the auth middleware stores the
// requester's ObjectID under.
const UserIDKey = "userId"

// AuthMiddleware builds the authorization gate as an ordered pipeline:
// bearer extraction, remote token verification, audience check, subject
// check. Each step either rejects or enriches; the requester id lands in the
// context once every step has passed.
func AuthMiddleware(verifier authorization.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := ExtractBearerToken(c.Request().Header.Get("Authorization"))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			claims, err := verifier.Verify(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, authorization.ErrInvalidToken) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized token")
				}
				c.Logger().Error(err)
				return echo.NewHTTPError(http.StatusInternalServerError, "Unable to verify token")
			}

			if err := CheckAudience(claims.Aud); err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			userID, err := ParseSubject(claims.Sub)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}

// ExtractBearerToken pulls the token out of an "Authorization: Bearer ..."
// header value.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("Missing authorization")
	}

	parts := strings.SplitN(header, " ", 2)
	if parts[0] != "Bearer" {
		return "", errors.New("Unauthorized token type")
	}
	if len(parts) != 2 || parts[1] == "" {
		return "", errors.New("Missing token")
	}
	return parts[1], nil
}

// CheckAudience validates an audience claim of form y:<services|*>:<users|*>.
func CheckAudience(aud string) error {
	parts := strings.Split(aud, ":")
	if len(parts) != 3 {
		return errors.New("Unauthorized audience")
	}
	if parts[0] != "y" {
		return errors.New("Unauthorized audience platform")
	}
	if parts[1] != "services" && parts[1] != "*" {
		return errors.New("Unauthorized audience location")
	}
	if parts[2] != "users" && parts[2] != "*" {
		return errors.New("Unauthorized audience target")
	}
	return nil
}

// ParseSubject validates a subject claim of form y:<users|*>:<id> and
// returns the id as an ObjectID.
func ParseSubject(sub string) (primitive.ObjectID, error) {
	parts := strings.Split(sub, ":")
	if len(parts) != 3 {
		return primitive.NilObjectID, errors.New("Unauthorized subject")
	}
	if parts[0] != "y" {
		return primitive.NilObjectID, errors.New("Unauthorized subject platform")
	}
	if parts[1] != "users" && parts[1] != "*" {
		return primitive.NilObjectID, errors.New("Unauthorized subject location")
	}
	if parts[2] == "" {
		return primitive.NilObjectID, errors.New("Unauthorized subject id")
	}

	id, err := primitive.ObjectIDFromHex(parts[2])
	if err != nil {
		return primitive.NilObjectID, errors.New("Invalid subject id")
	}
	return id, nil
}

// GetUserID reads the requester id stored by AuthMiddleware.
func GetUserID(c echo.Context) primitive.ObjectID {
	return c.Get(UserIDKey).(primitive.ObjectID)
}
