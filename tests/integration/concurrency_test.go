package integration

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentMilestoneReviews races many reviewers over the same pending
// milestone. The conditional status write is the arbiter: exactly one
// decision lands, every loser gets a conflict, and the contract activates
// exactly once.
func TestConcurrentMilestoneReviews(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	reviewerID := uuid.New()
	reviewerToken := app.token(t, reviewerID, "reviewer")
	detail := app.createEscrow(t, reviewerToken, reviewerID)

	status, _ := app.request(t, http.MethodPost, "/api/v1/escrows/"+detail.Contract.ContractAddress+"/fund", reviewerToken, nil)
	require.Equal(t, http.StatusOK, status)

	const workers = 20
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		conflicts atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, envelope := app.request(t, http.MethodPost, "/api/v1/milestones/"+detail.Milestones[0].ID+"/review", reviewerToken, map[string]any{"decision": "APPROVED"})
			switch code {
			case http.StatusOK:
				succeeded.Add(1)
			case http.StatusConflict:
				var code string
				if raw, found := envelope["error_code"]; found {
					_ = json.Unmarshal(raw, &code)
				}
				if code == "MIL_001" {
					conflicts.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(workers-1), conflicts.Load())

	// One approval, one activation, one queued release.
	status, envelope := app.request(t, http.MethodGet, "/api/v1/escrows/"+detail.Contract.ID, reviewerToken, nil)
	require.Equal(t, http.StatusOK, status)
	var after escrowDetail
	unmarshalData(t, envelope, &after)
	assert.Equal(t, "ACTIVE", after.Contract.CurrentState)

	intents, err := app.releaseRepo.ClaimQueued(t.Context(), 100)
	require.NoError(t, err)
	assert.Len(t, intents, 1)
}

// TestConcurrentSubmits replays the same signed envelope from many clients at
// once. The submission cache deduplicates on the transaction hash, so the
// ledger must see at most one submit regardless of interleaving.
func TestConcurrentSubmits(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	token := app.token(t, uuid.New(), "reviewer")
	body := map[string]any{
		"payload":          "signed-payload",
		"transaction_hash": "cafebabe99",
	}

	const workers = 10
	var (
		wg sync.WaitGroup
		ok atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, _ := app.request(t, http.MethodPost, "/api/v1/transactions", token, body)
			if code == http.StatusOK {
				ok.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, app.ledger.submitCount())
	assert.GreaterOrEqual(t, ok.Load(), int32(1))
}
