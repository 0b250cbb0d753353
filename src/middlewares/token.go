package middlewares

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"travexe/src/lib"

	"github.com/gin-gonic/gin"
)

// VerifyIdToken validates a Firebase ID token during login and registration.
// Session endpoints use AuthMiddleware with the API's own tokens instead.
func VerifyIdToken(ctx *gin.Context) {
	idToken := ctx.GetHeader("Authorization")
	idToken = strings.TrimPrefix(idToken, "Bearer ")
	if idToken == "" {
		err := errors.New("missing authorization header")
		log.Printf("Check failed: %s\n", err.Error())
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
		return
	}
	fauth, err := lib.GetFirebaseAuth()
	if err != nil {
		log.Printf("Error retrieving Firebase Auth instance: %s\n", err.Error())
		ctx.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	token, err := fauth.VerifyIDToken(ctx, idToken)
	if err != nil {
		msg := "Failed to verify ID token"
		log.Printf("%s: %s\n", msg, err.Error())
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": msg})
		return
	}
	ctx.Set("uid", token.UID)
	if email, ok := token.Claims["email"].(string); ok {
		ctx.Set("email", email)
	}
	if name, ok := token.Claims["name"].(string); ok {
		ctx.Set("name", name)
	}
}
