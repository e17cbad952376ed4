package arb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	projectrpc "github.com/aman-zulfiqar/solana-arb-engine/internal/rpc"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedTestPlan(t *testing.T) *TransactionPlan {
	t.Helper()

	kp := solana.NewWallet()
	ix := system.NewTransferInstruction(100, kp.PublicKey(), solana.NewWallet().PublicKey()).Build()

	var blockhash solana.Hash
	blockhash[0] = 7

	tx, err := solana.NewTransaction(
		[]solana.Instruction{ix},
		blockhash,
		solana.TransactionPayer(kp.PublicKey()),
	)
	require.NoError(t, err)

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(kp.PublicKey()) {
			return &kp.PrivateKey
		}
		return nil
	})
	require.NoError(t, err)

	return &TransactionPlan{Tx: tx, Blockhash: blockhash}
}

func newSubmitter(baseURL string) *Submitter {
	return NewSubmitter(projectrpc.NewClient(projectrpc.ClientConfig{
		BaseURL: baseURL,
		Logger:  quietLogger(),
	}), quietLogger())
}

func TestSubmit(t *testing.T) {
	chain := &fakeChain{}
	srv := chain.serve()
	defer srv.Close()

	plan := signedTestPlan(t)
	outcome, err := newSubmitter(srv.URL).Submit(context.Background(), plan)
	require.NoError(t, err)

	assert.Equal(t, "bundle-1", outcome.BundleID)
	assert.Equal(t, plan.Tx.Signatures[0], outcome.Signature)
	assert.False(t, outcome.SubmittedAt.IsZero())
	require.Len(t, chain.bundleList(), 1)
}

func TestSubmitRelayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"error":{"code":-32600,"message":"bundle rejected"}}`)
	}))
	defer srv.Close()

	_, err := newSubmitter(srv.URL).Submit(context.Background(), signedTestPlan(t))
	require.Error(t, err)

	var subErr *SubmissionError
	require.True(t, errors.As(err, &subErr))
	assert.Equal(t, "sendBundle", subErr.Step)
	assert.Contains(t, err.Error(), "bundle rejected")
}

func TestSubmitEmptyBundleID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":""}`)
	}))
	defer srv.Close()

	_, err := newSubmitter(srv.URL).Submit(context.Background(), signedTestPlan(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty bundle id")
}
