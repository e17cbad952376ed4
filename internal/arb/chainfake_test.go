package arb

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// fakeChain is an httptest-backed JSON-RPC node. It hands out a fresh
// blockhash per request and records every transaction it receives.
type fakeChain struct {
	mu sync.Mutex

	balance        uint64
	balanceCalls   int
	blockhashCalls uint64
	sendTxErr      string
	sentTxs        []string // base64, from sendTransaction
	bundles        []string // base58, from sendBundle
}

func (f *fakeChain) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()

		switch req.Method {
		case "getBalance":
			f.balanceCalls++
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":{"value":%d}}`, f.balance)

		case "getLatestBlockhash":
			f.blockhashCalls++
			var h solana.Hash
			binary.BigEndian.PutUint64(h[24:], f.blockhashCalls)
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":{"value":{"blockhash":%q,"lastValidBlockHeight":100}}}`, h.String())

		case "sendTransaction":
			if f.sendTxErr != "" {
				fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"error":{"code":-32002,"message":%q}}`, f.sendTxErr)
				return
			}
			var encoded string
			_ = json.Unmarshal(req.Params[0], &encoded)
			f.sentTxs = append(f.sentTxs, encoded)
			sig := solana.Signature{}
			sig[0] = byte(len(f.sentTxs))
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":%q}`, sig.String())

		case "getSignatureStatuses":
			fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":{"value":[{"slot":1,"confirmations":10,"err":null,"confirmationStatus":"confirmed"}]}}`)

		case "getAccountInfo":
			fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":{"value":null}}`)

		case "sendBundle":
			var txs []string
			_ = json.Unmarshal(req.Params[0], &txs)
			f.bundles = append(f.bundles, txs...)
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":"bundle-%d"}`, len(f.bundles))

		default:
			http.Error(w, "unknown method "+req.Method, http.StatusBadRequest)
		}
	}
}

func (f *fakeChain) serve() *httptest.Server {
	return httptest.NewServer(f.handler())
}

func (f *fakeChain) sentTxCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sentTxs)
}

func (f *fakeChain) balanceCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balanceCalls
}

func (f *fakeChain) bundleList() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.bundles))
	copy(out, f.bundles)
	return out
}
