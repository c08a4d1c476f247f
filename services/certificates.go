package services

import (
	"encoding/json"
	"errors"
	"time"

	"cyberquest-backend/models"
	"cyberquest-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CertificatePointThreshold gates issuance on the user's total points.
const CertificatePointThreshold = 1500

const (
	certificateTitle       = "Cybersecurity Fundamentals Certificate"
	certificateDescription = "Awarded for completing the core cybersecurity training track and demonstrating applied knowledge across quizzes, labs, and simulations."
)

var certificateSkills = []string{
	"Network Security",
	"Threat Analysis",
	"Incident Response",
	"Security Awareness",
	"Vulnerability Assessment",
}

var (
	ErrNotEnoughPoints     = errors.New("not enough points for a certificate")
	ErrCertificateNotFound = errors.New("certificate not found")
)

type CertificateService struct {
	DB *gorm.DB
}

func NewCertificateService(db *gorm.DB) *CertificateService {
	return &CertificateService{DB: db}
}

// Issue grants the certificate once the user crosses the point threshold.
// Idempotent per (user, title): a repeat request returns the existing row with
// its original verification code.
func (s *CertificateService) Issue(user *models.User) (*models.Certificate, bool, error) {
	if user.TotalPoints < CertificatePointThreshold {
		return nil, false, ErrNotEnoughPoints
	}

	skills, err := json.Marshal(certificateSkills)
	if err != nil {
		return nil, false, err
	}
	cert := models.Certificate{
		ID:               uuid.NewString(),
		UserID:           user.ID,
		Title:            certificateTitle,
		Description:      certificateDescription,
		VerificationCode: utils.GenerateVerificationCode(),
		Skills:           skills,
		IssuedAt:         time.Now(),
	}
	res := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "title"}},
		DoNothing: true,
	}).Create(&cert)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		var existing models.Certificate
		if err := s.DB.Where("user_id = ? AND title = ?", user.ID, certificateTitle).
			First(&existing).Error; err != nil {
			return nil, false, err
		}
		return &existing, false, nil
	}
	return &cert, true, nil
}

// VerifyByCode is the public lookup behind certificate verification pages.
func (s *CertificateService) VerifyByCode(code string) (*models.Certificate, error) {
	var cert models.Certificate
	if err := s.DB.Where("verification_code = ?", code).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}
	return &cert, nil
}

// ListForUser returns the user's issued certificates.
func (s *CertificateService) ListForUser(userID string) ([]models.Certificate, error) {
	var certs []models.Certificate
	err := s.DB.Where("user_id = ?", userID).Order("issued_at DESC").Find(&certs).Error
	return certs, err
}
