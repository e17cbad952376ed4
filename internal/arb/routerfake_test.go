package arb

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/aman-zulfiqar/solana-arb-engine/internal/jupiter"
)

const (
	testJupProgram = "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"
	testATAProgram = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
	testAmmKey     = "58oQChx4yWmvKdwLLZzBi4ChoCc2fqCUWBkwMihLYQo2"
)

// fakeRouter scripts the routing service: leg A and leg B quote outputs are
// fixed, and swap-instructions returns one setup instruction plus the swap.
type fakeRouter struct {
	mu sync.Mutex

	baseMint  string
	quoteMint string
	legAOut   string
	legBOut   string

	quoteCalls  int
	swapCalls   int
	legBAmount  string // amount requested for leg B, to verify chaining
	lastSwapReq jupiter.SwapInstructionsRequest
}

func (f *fakeRouter) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/quote"):
			f.handleQuote(w, r)
		case strings.HasSuffix(r.URL.Path, "/swap-instructions"):
			f.handleSwapInstructions(w, r)
		default:
			http.NotFound(w, r)
		}
	}
}

func (f *fakeRouter) handleQuote(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quoteCalls++

	q := r.URL.Query()
	in := q.Get("inputMint")
	amount := q.Get("amount")

	out := f.legAOut
	outputMint := f.quoteMint
	if in != f.baseMint {
		f.legBAmount = amount
		out = f.legBOut
		outputMint = f.baseMint
	}

	resp := jupiter.QuoteResponse{
		InputMint:            in,
		OutputMint:           outputMint,
		InAmount:             amount,
		OutAmount:            out,
		OtherAmountThreshold: out,
		SwapMode:             "ExactIn",
		PriceImpactPct:       "0.01",
		RoutePlan: []jupiter.RoutePlanStep{
			{SwapInfo: jupiter.SwapInfo{
				AmmKey:     testAmmKey,
				Label:      "Raydium",
				InputMint:  in,
				OutputMint: outputMint,
				InAmount:   amount,
				OutAmount:  out,
			}},
		},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (f *fakeRouter) handleSwapInstructions(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.swapCalls++

	var req jupiter.SwapInstructionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.lastSwapReq = req

	user := jupiter.AccountMeta{Pubkey: req.UserPublicKey, IsSigner: false, IsWritable: true}
	resp := jupiter.SwapInstructionsResponse{
		SetupInstructions: []jupiter.Instruction{
			{
				ProgramID: testATAProgram,
				Accounts:  []jupiter.AccountMeta{user},
				Data:      base64.StdEncoding.EncodeToString([]byte{1}),
			},
		},
		SwapInstruction: jupiter.Instruction{
			ProgramID: testJupProgram,
			Accounts: []jupiter.AccountMeta{
				user,
				{Pubkey: testAmmKey, IsSigner: false, IsWritable: true},
			},
			Data: base64.StdEncoding.EncodeToString([]byte{0xe5, 0x17, 0xcb, 0x97, 0x7a, 0xe3, 0xad, 0x2a}),
		},
		AddressLookupTableAddresses: []string{},
		ComputeUnitLimit:            600_000,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (f *fakeRouter) serve() *httptest.Server {
	return httptest.NewServer(f.handler())
}

func (f *fakeRouter) swapCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.swapCalls
}

func (f *fakeRouter) legBRequestedAmount() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.legBAmount
}
