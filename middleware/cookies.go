package middleware

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
)

const cookiesKey = "cookies"

// CookieParser deja las cookies de la petición, ya decodificadas, en c.Locals
func CookieParser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookies := make(map[string]string)
		c.Request().Header.VisitAllCookie(func(key, value []byte) {
			v := string(value)
			if decoded, err := url.PathUnescape(v); err == nil {
				v = decoded
			}
			cookies[string(key)] = v
		})
		c.Locals(cookiesKey, cookies)
		return c.Next()
	}
}

// Cookies devuelve las cookies parseadas (vacío si CookieParser no corrió)
func Cookies(c *fiber.Ctx) map[string]string {
	if cookies, ok := c.Locals(cookiesKey).(map[string]string); ok {
		return cookies
	}
	return map[string]string{}
}

// Cookie devuelve el valor de una cookie parseada
func Cookie(c *fiber.Ctx, name string) string {
	return Cookies(c)[name]
}
