package usercontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DerickDutraDev/store-GBS/auth"
	"github.com/DerickDutraDev/store-GBS/notice"
	"github.com/DerickDutraDev/store-GBS/session"
)

type RegisterInput struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
	// PendingProductID is what the shopper tried to add before being sent
	// to the login page.
	PendingProductID string `json:"pending_product_id" form:"pending_product_id"`
}

type GoogleInput struct {
	IDToken          string `json:"id_token" form:"id_token" binding:"required"`
	PendingProductID string `json:"pending_product_id" form:"pending_product_id"`
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg, "notice": notice.Error(msg)})
}

// GET /login
// A signed-in visitor is sent on to where a fresh login would land.
func LoginPage(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s, ok := session.From(c.Request.Context()); ok {
			c.Redirect(http.StatusFound, landing(s.IsAdmin, ""))
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"page":           "login",
			"google_enabled": d.Auth.GoogleEnabled(),
			"pending":        c.Query("product_id"),
		})
	}
}

// GET /register
func RegisterPage(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := session.From(c.Request.Context()); ok {
			c.Redirect(http.StatusFound, "/")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"page":                "register",
			"min_password_length": auth.MinPasswordLength,
		})
	}
}

// POST /register
func Register(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		profile, err := d.Auth.SignUp(c.Request.Context(), input.Email, input.Password, input.Name)
		if err != nil {
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail):
				status = http.StatusUnprocessableEntity
			case errors.Is(err, auth.ErrEmailTaken):
				status = http.StatusConflict
			default:
				d.Log.Error("sign up failed", zap.Error(err))
			}
			fail(c, status, auth.Message(err))
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"user":     profile,
			"redirect": "/login",
			"notice":   notice.Success(notice.MsgAccountCreated),
		})
	}
}

// POST /login
func Login(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		res, err := d.Auth.SignIn(c.Request.Context(), input.Email, input.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				fail(c, http.StatusUnauthorized, auth.Message(err))
				return
			}
			d.Log.Error("sign in failed", zap.Error(err))
			fail(c, http.StatusInternalServerError, auth.Message(err))
			return
		}
		d.signedIn(c, res, input.PendingProductID)
	}
}

// POST /auth/google
func GoogleLogin(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !d.Auth.GoogleEnabled() {
			fail(c, http.StatusServiceUnavailable, auth.Message(auth.ErrGoogleDisabled))
			return
		}

		var input GoogleInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		res, err := d.Auth.GoogleSignIn(c.Request.Context(), input.IDToken)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				fail(c, http.StatusUnauthorized, auth.Message(err))
				return
			}
			d.Log.Error("google sign in failed", zap.Error(err))
			fail(c, http.StatusInternalServerError, auth.Message(err))
			return
		}
		d.signedIn(c, res, input.PendingProductID)
	}
}

// signedIn sets the session cookie and tells the client where to go next.
// A pending product is added to the cart first; if that fails the shopper
// still lands on the cart, without it.
func (d Deps) signedIn(c *gin.Context, res auth.SignInResult, pending string) {
	d.setSession(c, res)

	added := ""
	if pending != "" && d.Cart != nil {
		if _, err := d.Cart.Add(c.Request.Context(), res.UserID, pending, 1); err != nil {
			d.Log.Warn("add pending product failed", zap.String("user_id", res.UserID), zap.String("product_id", pending), zap.Error(err))
		} else {
			added = pending
		}
	}

	redirect := landing(res.IsAdmin, added)
	if pending != "" && added == "" && !res.IsAdmin {
		redirect = CartPath
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      res.Token,
		"expires_at": res.ExpiresAt,
		"user": session.Session{
			UserID:  res.UserID,
			Email:   res.Email,
			Name:    res.Name,
			IsAdmin: res.IsAdmin,
		},
		"redirect": redirect,
	})
}

// landing is where a shopper goes after signing in: admins to the
// dashboard, shoppers with a freshly added product to the cart, everyone
// else home.
func landing(isAdmin bool, added string) string {
	switch {
	case isAdmin:
		return AdminPath
	case added != "":
		return CartPath + "?added=" + added
	default:
		return "/"
	}
}

// POST /logout
func Logout(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		d.clearSession(c)

		s, ok := session.From(c.Request.Context())
		if !ok {
			c.JSON(http.StatusOK, gin.H{"redirect": "/"})
			return
		}
		if err := d.Auth.SignOut(c.Request.Context(), s.UserID); err != nil {
			d.Log.Error("sign out failed", zap.String("user_id", s.UserID), zap.Error(err))
			fail(c, http.StatusInternalServerError, notice.MsgSignOutFailed)
			return
		}
		c.JSON(http.StatusOK, gin.H{"redirect": "/", "notice": notice.Info(notice.MsgSignedOut)})
	}
}
