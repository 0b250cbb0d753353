package main

import (
	"context"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"travexe/src/db"
	"travexe/src/lib"
	"travexe/src/models"
	"travexe/src/types"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
)

// cacheDestinations keeps the destination catalog in redis for an hour.
// The catalog is small and read-heavy, so each request serves from cache
// and only misses hit Firestore.
func cacheDestinations(ctx context.Context) []*models.Destination {
	destinations := make([]*models.Destination, 0)
	if lib.CacheGetJSON(ctx, "destinations", &destinations) {
		return destinations
	}
	store := db.GetStore()
	docs, err := store.FindEq(ctx, db.Destinations, types.JSONB{})
	if err != nil {
		log.Printf("Error retrieving destinations: %s\n", err.Error())
		return destinations
	}
	for _, doc := range docs {
		var d models.Destination
		if err := doc.DataTo(&d); err != nil {
			continue
		}
		d.DestinationID = doc.ID()
		if d.Slug == "" {
			d.Slug = slug.Make(d.Name)
		}
		destinations = append(destinations, &d)
	}
	sort.Slice(destinations, func(i, j int) bool {
		return destinations[i].Name < destinations[j].Name
	})
	lib.CacheSetJSON(ctx, "destinations", destinations, time.Hour)
	return destinations
}

func destinationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/destinations", func(ctx *gin.Context) {
			var query struct {
				Tag       string `form:"tag"`
				Continent string `form:"continent"`
				Search    string `form:"search"`
				Country   string `form:"country"`
			}
			if err := ctx.BindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid query parameters"})
				return
			}
			destinations := cacheDestinations(ctx)
			filtered := make([]*models.Destination, 0, len(destinations))
			for _, d := range destinations {
				if query.Continent != "" && !strings.EqualFold(d.Continent, query.Continent) {
					continue
				}
				if query.Country != "" && !strings.EqualFold(d.Country, query.Country) {
					continue
				}
				if query.Tag != "" && !containsFold(d.Tags, query.Tag) {
					continue
				}
				if query.Search != "" && !matchesSearch(d, query.Search) {
					continue
				}
				filtered = append(filtered, d)
			}
			if len(filtered) == 0 {
				ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "No destinations found", "data": filtered, "count": 0})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Destinations retrieved successfully", "data": filtered, "count": len(filtered)})
		}).
		GET("/destinations/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid destination id"})
				return
			}
			store := db.GetStore()
			doc, err := store.Get(ctx, db.Destinations, params.ID)
			if err != nil {
				if err == db.ErrNotFound {
					// fall back to slug lookup, the app links both ways
					docs, ferr := store.FindEq(ctx, db.Destinations, types.JSONB{"slug": params.ID})
					if ferr == nil && len(docs) > 0 {
						doc = docs[0]
					} else {
						ctx.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Destination not found"})
						return
					}
				} else {
					ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get destination", "error": err.Error()})
					return
				}
			}
			var d models.Destination
			if err := doc.DataTo(&d); err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get destination", "error": err.Error()})
				return
			}
			d.DestinationID = doc.ID()
			ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Destination retrieved successfully", "data": d})
		})
	return g
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

func matchesSearch(d *models.Destination, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	return strings.Contains(strings.ToLower(d.Name), term) ||
		strings.Contains(strings.ToLower(d.Country), term) ||
		strings.EqualFold(d.Slug, slug.Make(term))
}
