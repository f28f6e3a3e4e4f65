package handlers

import (
	"strconv"

	"github.com/valyala/fasthttp"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Oscargtgzz/Rendimientos/internal/config"
	dbpkg "github.com/Oscargtgzz/Rendimientos/internal/db"
)

func CreateUser(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		if !user.IsAdmin {
			ctx.SetStatusCode(fasthttp.StatusForbidden)
			ctx.SetBodyString("forbidden")
			return
		}

		username := string(ctx.PostArgs().Peek("username"))
		password := string(ctx.PostArgs().Peek("password"))
		if username == "" || password == "" {
			ctx.SetStatusCode(fasthttp.StatusBadRequest)
			ctx.SetBodyString("username and password required")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			ctx.SetStatusCode(fasthttp.StatusInternalServerError)
			ctx.SetBodyString("failed to hash password")
			return
		}

		newUser := &dbpkg.User{
			Username:     username,
			PasswordHash: string(hash),
			IsAdmin:      string(ctx.PostArgs().Peek("is_admin")) == "true",
		}
		if err := db.Create(newUser).Error; err != nil {
			ctx.SetStatusCode(fasthttp.StatusBadRequest)
			ctx.SetBodyString("failed to create user (username may already exist)")
			return
		}

		ctx.Redirect("/", fasthttp.StatusSeeOther)
	}
}

func DeleteUser(db *gorm.DB, cfg *config.Config) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		if !user.IsAdmin {
			ctx.SetStatusCode(fasthttp.StatusForbidden)
			ctx.SetBodyString("forbidden")
			return
		}

		idStr, _ := ctx.UserValue("id").(string)
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			ctx.SetStatusCode(fasthttp.StatusBadRequest)
			ctx.SetBodyString("invalid user ID")
			return
		}

		var target dbpkg.User
		if err := db.First(&target, id).Error; err != nil {
			ctx.SetStatusCode(fasthttp.StatusNotFound)
			ctx.SetBodyString("user not found")
			return
		}
		if target.Username == cfg.AdminUser {
			ctx.SetStatusCode(fasthttp.StatusForbidden)
			ctx.SetBodyString("cannot delete bootstrap admin user")
			return
		}

		if err := db.Delete(&target).Error; err != nil {
			ctx.SetStatusCode(fasthttp.StatusInternalServerError)
			ctx.SetBodyString("failed to delete user")
			return
		}

		ctx.Redirect("/", fasthttp.StatusSeeOther)
	}
}
