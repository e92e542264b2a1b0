package controllers

import (
	"errors"
	"log"

	"eduledger/database"
	"eduledger/ledger"
	"eduledger/middleware"
	"eduledger/models"
	"eduledger/utils"

	"github.com/gofiber/fiber/v2"
)

// Ledger is the certificate ledger service, wired in main
var Ledger *ledger.Service

// Init wires the certificate ledger service
func Init(service *ledger.Service) {
	Ledger = service
}

// IssueCertificate issues a certificate for a holder's completed course.
// The caller is the issuer and must hold the ADMIN or INSTRUCTOR role.
func IssueCertificate(c *fiber.Ctx) error {
	issuerID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedIssue").(*struct {
		HolderID uint `json:"holder_id"`
		CourseID uint `json:"course_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	cert, err := Ledger.Issue(reqData.HolderID, reqData.CourseID, issuerID)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrUnauthorized):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only admins and instructors can issue certificates!", nil)
		case errors.Is(err, ledger.ErrUnknownHolder):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Holder not found!", nil)
		case errors.Is(err, ledger.ErrUnknownCourse):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		case errors.Is(err, ledger.ErrNotCompleted):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Holder has not completed this course!", nil)
		case errors.Is(err, ledger.ErrDuplicateCertificate):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate already exists for this course!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
		}
	}

	// Notify the holder (best effort, never blocks the response)
	go func(cert models.Certificate) {
		var holder models.User
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", cert.UserID, false).First(&holder).Error; err != nil {
			return
		}
		if err := utils.SendCertificateIssuedEmail(holder.Email, holder.Name, cert.Title, cert.CertificateNumber); err != nil {
			log.Printf("Failed to send certificate email to %s: %v", holder.Email, err)
		}
	}(*cert)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate issued successfully!", cert)
}

// VerifyCertificate is the public verification endpoint. A revoked
// certificate is reported as found + revoked, never hidden.
func VerifyCertificate(c *fiber.Ctx) error {
	number, ok := c.Locals("certificateNumber").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := Ledger.Verify(number)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate was never issued!", result)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify certificate!", nil)
	}

	if result.Revoked {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate has been revoked!", result)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate is valid!", result)
}

// RevokeCertificate revokes a certificate. Admins and the original
// issuer may revoke; revoking twice is not an error.
func RevokeCertificate(c *fiber.Ctx) error {
	revokerID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	number, ok := c.Locals("certificateNumber").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	cert, err := Ledger.Revoke(number, revokerID)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
		case errors.Is(err, ledger.ErrUnauthorized):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only admins or the issuer can revoke this certificate!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to revoke certificate!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate revoked!", cert)
}

// GetUserCertificates lists the current user's certificates, newest
// first, revoked included
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	certificates, err := Ledger.ListForHolder(userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": certificates,
		"total":        len(certificates),
	})
}

// GetAllCertificates lists all issued certificates (admin)
func GetAllCertificates(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedList").(*struct {
		Page  *int `query:"page"`
		Limit *int `query:"limit"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	page, limit := 1, 10
	if reqData.Page != nil {
		page = *reqData.Page
	}
	if reqData.Limit != nil {
		limit = *reqData.Limit
	}

	certificates, total, err := Ledger.List(page, limit)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": certificates,
		"total":        total,
		"page":         page,
		"limit":        limit,
	})
}
