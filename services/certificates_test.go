package services

import (
	"testing"

	"cyberquest-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueCertificate_GatedOnPoints(t *testing.T) {
	db := newTestDB(t)
	svc := NewCertificateService(db)
	user := seedUser(t, db, "user_cert_gate")
	user.TotalPoints = CertificatePointThreshold - 1

	_, _, err := svc.Issue(user)
	assert.ErrorIs(t, err, ErrNotEnoughPoints)

	var count int64
	require.NoError(t, db.Model(&models.Certificate{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestIssueCertificate_IdempotentPerUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewCertificateService(db)
	user := seedUser(t, db, "user_cert_issue")
	user.TotalPoints = CertificatePointThreshold

	cert, created, err := svc.Issue(user)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, cert.VerificationCode)
	assert.Equal(t, user.ID, cert.UserID)

	again, created, err := svc.Issue(user)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, cert.ID, again.ID)
	assert.Equal(t, cert.VerificationCode, again.VerificationCode, "repeat requests keep the original code")

	var count int64
	require.NoError(t, db.Model(&models.Certificate{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestVerifyByCode(t *testing.T) {
	db := newTestDB(t)
	svc := NewCertificateService(db)
	user := seedUser(t, db, "user_cert_verify")
	user.TotalPoints = CertificatePointThreshold + 200

	cert, _, err := svc.Issue(user)
	require.NoError(t, err)

	found, err := svc.VerifyByCode(cert.VerificationCode)
	require.NoError(t, err)
	assert.Equal(t, cert.ID, found.ID)

	_, err = svc.VerifyByCode("XXXX-XXXX-XXXX")
	assert.ErrorIs(t, err, ErrCertificateNotFound)
}

func TestListCertificatesForUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewCertificateService(db)
	user := seedUser(t, db, "user_cert_list")
	user.TotalPoints = CertificatePointThreshold

	_, _, err := svc.Issue(user)
	require.NoError(t, err)

	certs, err := svc.ListForUser(user.ID)
	require.NoError(t, err)
	assert.Len(t, certs, 1)

	empty, err := svc.ListForUser("someone-else")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
