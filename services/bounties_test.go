package services

import (
	"testing"
	"time"

	"hoodie-academy-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBounty(t *testing.T, svc *BountyService, b *models.Bounty) *models.Bounty {
	t.Helper()
	created, err := svc.CreateBounty(b)
	require.NoError(t, err)
	return created
}

func TestBountySubmitAndApprove(t *testing.T) {
	db := newTestDB(t)
	svc := NewBountyService(db, nil)
	bounty := seedBounty(t, svc, &models.Bounty{Title: "Meme Monday", XPReward: 500})

	submission, err := svc.Submit("wallet-1", bounty.ID, "my entry", "behold", "")
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionPending, submission.Status)
	assert.Equal(t, int64(0), submission.XPAwarded)

	var stored models.Bounty
	require.NoError(t, db.Where("id = ?", bounty.ID).First(&stored).Error)
	assert.Equal(t, int64(1), stored.Submissions)

	approved, award, err := svc.Approve(submission.ID, "admin-wallet")
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionApproved, approved.Status)
	assert.Equal(t, int64(500), approved.XPAwarded)
	require.NotNil(t, award)
	assert.Equal(t, int64(500), award.User.TotalXP)

	// terminal
	_, _, err = svc.Approve(submission.ID, "admin-wallet")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestBountyApproveLedgerIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewBountyService(db, nil)
	bounty := seedBounty(t, svc, &models.Bounty{Title: "Meme Monday", XPReward: 500})

	first, err := svc.Submit("wallet-1", bounty.ID, "take one", "", "")
	require.NoError(t, err)
	second, err := svc.Submit("wallet-1", bounty.ID, "take two", "", "")
	require.NoError(t, err)

	_, _, err = svc.Approve(first.ID, "admin-wallet")
	require.NoError(t, err)

	// approving a second entry for the same bounty pays nothing extra
	approved, award, err := svc.Approve(second.ID, "admin-wallet")
	require.NoError(t, err)
	assert.Equal(t, int64(0), approved.XPAwarded)
	require.NotNil(t, award)
	assert.True(t, award.AlreadyAwarded)
	assert.Equal(t, int64(500), award.User.TotalXP)
}

func TestBountyReject(t *testing.T) {
	db := newTestDB(t)
	svc := NewBountyService(db, nil)
	bounty := seedBounty(t, svc, &models.Bounty{Title: "Meme Monday", XPReward: 500})

	submission, err := svc.Submit("wallet-1", bounty.ID, "entry", "", "")
	require.NoError(t, err)

	rejected, err := svc.Reject(submission.ID, "admin-wallet", "off topic")
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionRejected, rejected.Status)

	var user models.User
	require.NoError(t, db.Where("wallet_address = ?", "wallet-1").First(&user).Error)
	assert.Equal(t, int64(0), user.TotalXP)
}

func TestBountySubmitGates(t *testing.T) {
	db := newTestDB(t)
	svc := NewBountyService(db, nil)
	squads := NewSquadService(db)
	require.NoError(t, squads.SeedSquads())

	past := time.Now().Add(-time.Hour)
	expired := seedBounty(t, svc, &models.Bounty{Title: "Too Late", XPReward: 100, Deadline: &past})
	_, err := svc.Submit("wallet-1", expired.ID, "", "", "")
	assert.ErrorIs(t, err, ErrForbidden)

	squadID := "hoodie-raiders"
	gated := seedBounty(t, svc, &models.Bounty{Title: "Raid Only", XPReward: 100, SquadID: &squadID})
	_, err = svc.Submit("wallet-1", gated.ID, "", "", "")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = squads.Choose("wallet-1", "hoodie-raiders", false)
	require.NoError(t, err)
	_, err = svc.Submit("wallet-1", gated.ID, "", "", "")
	require.NoError(t, err)

	hidden := seedBounty(t, svc, &models.Bounty{Title: "Sneaky", XPReward: 100, Hidden: true})
	_, err = svc.Submit("wallet-1", hidden.ID, "", "", "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Submit("wallet-1", "no-such-bounty", "", "", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListBountiesHidesHidden(t *testing.T) {
	db := newTestDB(t)
	svc := NewBountyService(db, nil)
	seedBounty(t, svc, &models.Bounty{Title: "Visible", XPReward: 100})
	seedBounty(t, svc, &models.Bounty{Title: "Invisible", XPReward: 100, Hidden: true})

	visible, err := svc.ListBounties(false)
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	all, err := svc.ListBounties(true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateBountySlugAndSchedule(t *testing.T) {
	db := newTestDB(t)
	svc := NewBountyService(db, nil)

	future := time.Now().Add(48 * time.Hour)
	bounty := seedBounty(t, svc, &models.Bounty{Title: "Weekend Warrior!", XPReward: 250, PublishAt: &future})
	assert.Equal(t, "weekend-warrior", bounty.Slug)
	assert.True(t, bounty.Hidden, "scheduled bounty stays hidden until publish_at")

	_, err := svc.CreateBounty(&models.Bounty{Title: "Weekend Warrior!"})
	assert.ErrorIs(t, err, ErrConflict)
}
