package usercontroller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DerickDutraDev/store-GBS/auth"
	"github.com/DerickDutraDev/store-GBS/models"
)

// Authenticator is satisfied by *auth.Provider.
type Authenticator interface {
	SignUp(ctx context.Context, email, password, name string) (models.UserProfile, error)
	SignIn(ctx context.Context, email, password string) (auth.SignInResult, error)
	GoogleSignIn(ctx context.Context, idToken string) (auth.SignInResult, error)
	SignOut(ctx context.Context, userID string) error
	GoogleEnabled() bool
}

// CartAdder puts the product a shopper picked before signing in into their
// cart. *cart.Service satisfies it.
type CartAdder interface {
	Add(ctx context.Context, userID, productID string, qty int) (models.CartItem, error)
}

type ProfileLister interface {
	List(ctx context.Context, limit int) ([]models.UserProfile, error)
}

type Deps struct {
	Auth         Authenticator
	Cart         CartAdder // optional
	Profiles     ProfileLister
	CookieName   string
	SecureCookie bool
	Log          *zap.Logger
}

const (
	AdminPath = "/admin"
	CartPath  = "/cart"
)

func (d Deps) setSession(c *gin.Context, res auth.SignInResult) {
	maxAge := int(time.Until(res.ExpiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(d.CookieName, res.Token, maxAge, "/", "", d.SecureCookie, true)
}

func (d Deps) clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(d.CookieName, "", -1, "/", "", d.SecureCookie, true)
}
