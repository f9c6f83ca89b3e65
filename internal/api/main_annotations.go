// @title           bookmarkd API
// @version         1.0
// @description     Personal bookmark manager. Register, log in, and manage URL bookmarks, each assigned a short unique alias.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerToken
// @in              header
// @name            Authorization
// @description     Type "Bearer" followed by a space and a JWT. Access tokens for bookmark routes; a refresh token for /auth/token/refresh.
package api
