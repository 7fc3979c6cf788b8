package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/caminoapp/camino-backend/internal/store"
)

func AdminListUsers(users *store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := users.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}

		out := make([]gin.H, 0, len(all))
		for i := range all {
			out = append(out, userResponse(&all[i]))
		}
		c.JSON(200, gin.H{"users": out})
	}
}

func AdminListTrips(tripStore *store.TripStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := tripStore.FindAll(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"trips": all})
	}
}
