package handlers

import (
	"bytes"

	"github.com/valyala/fasthttp"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Oscargtgzz/Rendimientos/internal/config"
	dbpkg "github.com/Oscargtgzz/Rendimientos/internal/db"
	ui "github.com/Oscargtgzz/Rendimientos/web"
)

const loginFailedMsg = "Usuario o contraseña incorrectos."

// LoginForm renders the standalone login page.
func LoginForm() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		renderLogin(ctx, fasthttp.StatusOK, "")
	}
}

// LoginSubmit checks the posted credentials and opens the cookie
// session. Unknown user and wrong password produce the same message.
func LoginSubmit(db *gorm.DB) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		username := string(ctx.PostArgs().Peek("username"))
		password := string(ctx.PostArgs().Peek("password"))

		var user dbpkg.User
		if err := db.Where("username = ?", username).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				renderLogin(ctx, fasthttp.StatusUnauthorized, loginFailedMsg)
				return
			}
			ctx.SetStatusCode(fasthttp.StatusInternalServerError)
			ctx.SetBodyString("database error")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			renderLogin(ctx, fasthttp.StatusUnauthorized, loginFailedMsg)
			return
		}

		var c fasthttp.Cookie
		c.SetKey("session_user")
		c.SetValue(username)
		c.SetPath("/")
		c.SetHTTPOnly(true)
		ctx.Response.Header.SetCookie(&c)

		ctx.Redirect("/", fasthttp.StatusSeeOther)
	}
}

func renderLogin(ctx *fasthttp.RequestCtx, status int, errMsg string) {
	t := ui.Templates().Lookup("login.html")
	if t == nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString("login template not found")
		return
	}
	var data map[string]any
	if errMsg != "" {
		data = map[string]any{"Error": errMsg}
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString("render error")
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("text/html; charset=utf-8")
	ctx.SetBody(buf.Bytes())
}

// Logout expires the session cookie.
func Logout() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var c fasthttp.Cookie
		c.SetKey("session_user")
		c.SetValue("")
		c.SetPath("/")
		c.SetMaxAge(-1)
		ctx.Response.Header.SetCookie(&c)
		ctx.Redirect("/login", fasthttp.StatusSeeOther)
	}
}

// ChangePasswordSelf handles the account form in the top navigation.
// It answers JSON because the form submits via fetch. The bootstrap
// admin's password comes from the environment and cannot be changed
// here.
func ChangePasswordSelf(db *gorm.DB, cfg *config.Config) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		user, ok := MustUser(ctx)
		if !ok {
			return
		}
		if user.Username == cfg.AdminUser {
			errResponse(ctx, fasthttp.StatusForbidden,
				"la contraseña del administrador inicial se define por variable de entorno")
			return
		}

		current := string(ctx.PostArgs().Peek("current_password"))
		newPassword := string(ctx.PostArgs().Peek("new_password"))
		confirm := string(ctx.PostArgs().Peek("confirm_password"))

		if current == "" || newPassword == "" || confirm == "" {
			errResponse(ctx, fasthttp.StatusBadRequest, "todos los campos son obligatorios")
			return
		}
		if newPassword != confirm {
			errResponse(ctx, fasthttp.StatusBadRequest, "la nueva contraseña no coincide")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
			errResponse(ctx, fasthttp.StatusUnauthorized, "la contraseña actual es incorrecta")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "no se pudo actualizar la contraseña")
			return
		}

		if err := db.Model(&dbpkg.User{}).Where("id = ?", user.ID).Update("password_hash", string(hash)).Error; err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "no se pudo actualizar la contraseña")
			return
		}

		jsonResponse(ctx, map[string]any{"status": "ok"})
	}
}
