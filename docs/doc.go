// Package docs provides generated OpenAPI documentation.
//
// Marquee API
//
//	@title			Marquee API
//	@version		1.0
//	@description	Netflix catalog scrape jobs with downloadable bundles and AI-generated promo assets.
//	@termsOfService	http://swagger.io/terms/
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/marquee
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8000
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/marquee/serve.go -o ./swagger --parseDependency --parseInternal
