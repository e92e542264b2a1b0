package certificateRoutes

import (
	controllers "eduledger/controllers/certificate"
	"eduledger/middleware"
	"eduledger/models"
	validators "eduledger/validators/certificate"

	"github.com/gofiber/fiber/v2"
)

// SetupCertificateRoutes sets up all certificate ledger routes
func SetupCertificateRoutes(app *fiber.App) {
	certGroup := app.Group("/certificate")

	// Public verification endpoint (no auth: third parties check tokens)
	certGroup.Get("/verify/:number", validators.CertificateNumber(), controllers.VerifyCertificate)

	// Issuance and revocation
	certGroup.Post("/issue", middleware.JWTMiddleware, validators.IssueCertificate(), controllers.IssueCertificate)
	certGroup.Post("/:number/revoke", middleware.JWTMiddleware, validators.CertificateNumber(), controllers.RevokeCertificate)

	// Admin listing
	certGroup.Get("/list", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), validators.CertificateList(), controllers.GetAllCertificates)

	// Holder's own certificates
	userGroup := app.Group("/user")
	userGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)
}
