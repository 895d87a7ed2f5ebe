package cartcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DerickDutraDev/store-GBS/cart"
	"github.com/DerickDutraDev/store-GBS/notice"
	"github.com/DerickDutraDev/store-GBS/session"
)

// previewLines is how many lines the header preview lists.
const previewLines = 3

type CartItemInput struct {
	ProductID string `json:"product_id" form:"product_id" binding:"required"`
	Quantity  *int   `json:"quantity" form:"quantity"` // defaults to 1
}

type QuantityInput struct {
	Quantity *int `json:"quantity" form:"quantity" binding:"required"`
}

func userID(c *gin.Context) (string, bool) {
	s, ok := session.From(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return s.UserID, true
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg, "notice": notice.Error(msg)})
}

// GET /cart
// A load failure still renders the page: an empty cart and a notice.
func GetCart(svc *cart.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}

		sum, err := svc.View(c.Request.Context(), uid)
		if err != nil {
			log.Error("load cart failed", zap.String("user_id", uid), zap.Error(err))
			v := newView(cart.Aggregate(nil, nil, svc.Policy()))
			v.Notice = notice.Error(notice.MsgLoadCart)
			c.JSON(http.StatusOK, v)
			return
		}

		v := newView(sum)
		if added := c.Query("added"); added != "" && v.has(added) {
			v.Notice = notice.Success(notice.MsgAddedToCart)
		}
		c.JSON(http.StatusOK, v)
	}
}

// GET /cart/preview
func Preview(svc *cart.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}

		sum, err := svc.View(c.Request.Context(), uid)
		if err != nil {
			log.Error("load cart preview failed", zap.String("user_id", uid), zap.Error(err))
			sum = cart.Aggregate(nil, nil, svc.Policy())
		}

		v := newView(sum)
		more := 0
		if len(v.Lines) > previewLines {
			more = len(v.Lines) - previewLines
			v.Lines = v.Lines[:previewLines]
		}
		c.JSON(http.StatusOK, gin.H{
			"lines":       v.Lines,
			"more_lines":  more,
			"item_count":  v.ItemCount,
			"total":       v.Total,
			"total_label": v.TotalLabel,
		})
	}
}

// POST /cart/items
func AddItem(svc *cart.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}

		var input CartItemInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		qty := 1
		if input.Quantity != nil {
			qty = *input.Quantity
		}

		item, err := svc.Add(c.Request.Context(), uid, input.ProductID, qty)
		switch {
		case err == nil:
			c.JSON(http.StatusCreated, gin.H{"item": item, "notice": notice.Success(notice.MsgAddedToCart)})
		case errors.Is(err, cart.ErrInvalidQuantity):
			fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, cart.ErrUnknownProduct):
			fail(c, http.StatusNotFound, notice.MsgProductNotFound)
		default:
			log.Error("add to cart failed", zap.String("user_id", uid), zap.String("product_id", input.ProductID), zap.Error(err))
			fail(c, http.StatusInternalServerError, notice.MsgAddToCartFailed)
		}
	}
}

// PATCH /cart/items/:id where id is the product ID. Zero removes the line.
func UpdateItem(svc *cart.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}

		var input QuantityInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		productID := c.Param("id")
		if err := svc.SetQuantity(c.Request.Context(), uid, productID, *input.Quantity); err != nil {
			writeLineError(c, log, uid, productID, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"notice": notice.Success(notice.MsgCartUpdated)})
	}
}

// DELETE /cart/items/:id
func DeleteItem(svc *cart.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}

		productID := c.Param("id")
		if err := svc.Remove(c.Request.Context(), uid, productID); err != nil {
			writeLineError(c, log, uid, productID, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"notice": notice.Success(notice.MsgCartUpdated)})
	}
}

// DELETE /cart
func Clear(svc *cart.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := userID(c)
		if !ok {
			return
		}
		if err := svc.Clear(c.Request.Context(), uid); err != nil {
			log.Error("clear cart failed", zap.String("user_id", uid), zap.Error(err))
			fail(c, http.StatusInternalServerError, notice.MsgCartUpdateFailed)
			return
		}
		c.JSON(http.StatusOK, gin.H{"notice": notice.Success(notice.MsgCartCleared)})
	}
}

// POST /cart/checkout does nothing: there is no payment step yet.
func Checkout() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusAccepted, gin.H{"notice": notice.Info(notice.MsgCheckoutDisabled)})
	}
}

func writeLineError(c *gin.Context, log *zap.Logger, uid, productID string, err error) {
	if errors.Is(err, cart.ErrLineNotFound) {
		fail(c, http.StatusNotFound, "Item not in cart")
		return
	}
	log.Error("update cart failed", zap.String("user_id", uid), zap.String("product_id", productID), zap.Error(err))
	fail(c, http.StatusInternalServerError, notice.MsgCartUpdateFailed)
}
