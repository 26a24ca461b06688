package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Asim1O1/Shelf-Society-sub000/models"
)

// ValidateToken checks the bearer token and stores user_id and role in the context.
func ValidateToken(c *gin.Context) {
	tokenString := c.GetHeader("Authorization")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, models.Fail("Authorization header is missing"))
		c.Abort()
		return
	}
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, models.Fail("Invalid or expired token"))
		c.Abort()
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.Fail("Invalid token claims"))
		c.Abort()
		return
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, models.Fail("Invalid token claims"))
		c.Abort()
		return
	}
	role, _ := claims["role"].(string)

	c.Set("user_id", userID)
	c.Set("role", role)
	c.Next()
}

// RequireStaff gates privileged routes. Must run after ValidateToken.
func RequireStaff(c *gin.Context) {
	role, _ := c.Get("role")
	if role != string(models.RoleStaff) {
		c.JSON(http.StatusForbidden, models.Fail("Staff access required"))
		c.Abort()
		return
	}
	c.Next()
}
