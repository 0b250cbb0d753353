package controllers

import (
	"errors"
	"log"
	"net/http"

	"travexe/src/common"
	"travexe/src/db"
	"travexe/src/models"
	"travexe/src/types"
	"travexe/src/utils"

	"github.com/gin-gonic/gin"
)

// AuthRegister creates the user profile on first sign-in. The identity comes
// from the verified ID token, not from the request body.
func AuthRegister(ctx *gin.Context) (token *string, status int, err error) {
	var body types.RegisterUserRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	uid := ctx.GetString("uid")
	if uid == "" {
		return nil, http.StatusUnauthorized, errors.New("missing verified identity")
	}

	store := db.GetStore()
	docs, err := store.FindEq(ctx, db.Users, types.JSONB{"uid": uid})
	if err != nil {
		log.Printf("Error looking up user [%s]: %s\n", uid, err.Error())
		return nil, http.StatusInternalServerError, err
	}
	if len(docs) == 0 {
		_, err = store.Add(ctx, db.Users, types.JSONB{
			"uid":        uid,
			"name":       body.Name,
			"email":      body.Email,
			"createdAt":  db.ServerTimestamp,
			"updatedAt":  db.ServerTimestamp,
			"lastActive": db.ServerTimestamp,
		})
		if err != nil {
			log.Printf("Error creating user [%s]: %s\n", uid, err.Error())
			return nil, http.StatusInternalServerError, err
		}
		common.NotifyWelcome(ctx, uid, body.Name)
	}

	signed, err := utils.GenerateJWT(uid, body.Email)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return &signed, http.StatusCreated, nil
}

func AuthLogin(ctx *gin.Context) (token *string, status int, err error) {
	uid := ctx.GetString("uid")
	email := ctx.GetString("email")
	if uid == "" {
		return nil, http.StatusUnauthorized, errors.New("missing verified identity")
	}

	store := db.GetStore()
	docs, err := store.FindEq(ctx, db.Users, types.JSONB{"uid": uid})
	if err != nil {
		log.Printf("Error looking up user [%s]: %s\n", uid, err.Error())
		return nil, http.StatusInternalServerError, err
	}
	if len(docs) == 0 {
		return nil, http.StatusNotFound, errors.New("account not registered")
	}
	var user models.User
	if err := docs[0].DataTo(&user); err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if email == "" {
		email = user.Email
	}
	if err := store.Update(ctx, db.Users, docs[0].ID(), types.JSONB{
		"lastActive": db.ServerTimestamp,
	}); err != nil {
		log.Printf("Error updating lastActive for user [%s]: %s\n", uid, err.Error())
	}

	signed, err := utils.GenerateJWT(uid, email)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return &signed, http.StatusOK, nil
}
