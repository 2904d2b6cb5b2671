package service

import (
	"github.com/google/uuid"
)

// QRCodeService defines the interface for QR code generation and parsing services
type QRCodeService interface {
	// GeneratePickupQR generates a QR code image for handing over a pickup
	// booking at the location.
	GeneratePickupQR(bookingID uuid.UUID, orderID string) ([]byte, error)

	// ParsePickupQR parses QR code data and returns the booking ID.
	ParsePickupQR(qrData string) (uuid.UUID, error)
}
