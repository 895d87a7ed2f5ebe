// Package catalogcontroller serves the storefront pages. Each page answers
// the document it would render.
package catalogcontroller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/DerickDutraDev/store-GBS/catalog"
	"github.com/DerickDutraDev/store-GBS/notice"
)

type Deps struct {
	Catalog *catalog.Service
	Menu    *catalog.Menu
}

// GET /
func Home(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := d.Catalog.Home(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"new_arrivals": h.NewArrivals.View(),
			"bestsellers":  h.Bestsellers.View(),
		})
	}
}

// GET /products
func Products(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, d.Catalog.All(c.Request.Context()).View())
	}
}

// GET /products/:id
func Product(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok, n := d.Catalog.Product(c.Request.Context(), c.Param("id"))
		switch {
		case n != nil:
			c.JSON(http.StatusOK, gin.H{"product": nil, "notice": n})
		case !ok:
			c.JSON(http.StatusNotFound, gin.H{"error": notice.MsgProductNotFound})
		default:
			c.JSON(http.StatusOK, gin.H{"product": catalog.View(p)})
		}
	}
}

// GET /times/:team_slug
// A team with no products is a 404, unless the query failed.
func Team(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("team_slug")
		res := d.Catalog.ByTeam(c.Request.Context(), slug)
		if !res.Failed() && len(res.Products) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": notice.MsgTeamNotFound})
			return
		}

		team, ok := d.Menu.Team(slug)
		if !ok {
			team = catalog.Team{Name: slug, Slug: slug, Path: catalog.TeamPathPrefix + slug}
		}
		c.JSON(http.StatusOK, gin.H{"team": team, "result": res.View()})
	}
}

// GET /search?q=
func Search(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := strings.TrimSpace(c.Query("q"))
		c.JSON(http.StatusOK, gin.H{"query": q, "result": d.Catalog.Search(c.Request.Context(), q).View()})
	}
}

// GET /search/suggestions?q=
func Suggestions(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"suggestions": d.Menu.Suggest(c.Query("q"))})
	}
}

// GET /menu
func Menu(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, d.Menu)
	}
}
