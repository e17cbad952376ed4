package rpc

// RPCError represents a JSON-RPC error response
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return e.Message
}

// BalanceResponse is the response from getBalance
type BalanceResponse struct {
	Result struct {
		Value uint64 `json:"value"` // lamports
	} `json:"result"`
	Error *RPCError `json:"error"`
}

// AccountValue is the inner value of a getAccountInfo response
type AccountValue struct {
	Lamports uint64   `json:"lamports"`
	Owner    string   `json:"owner"`
	Data     []string `json:"data"` // [base64 payload, encoding]
}

// AccountInfoResponse is the response from getAccountInfo
type AccountInfoResponse struct {
	Result struct {
		Value *AccountValue `json:"value"`
	} `json:"result"`
	Error *RPCError `json:"error"`
}

// BlockhashResponse is the response from getLatestBlockhash
type BlockhashResponse struct {
	Result struct {
		Value struct {
			Blockhash            string `json:"blockhash"`
			LastValidBlockHeight uint64 `json:"lastValidBlockHeight"`
		} `json:"value"`
	} `json:"result"`
	Error *RPCError `json:"error"`
}

// SendTransactionResponse is the response from sendTransaction
type SendTransactionResponse struct {
	Result string    `json:"result"`
	Error  *RPCError `json:"error"`
}

// SignatureStatusesResponse is the response from getSignatureStatuses
type SignatureStatusesResponse struct {
	Result struct {
		Value []*SignatureStatus `json:"value"`
	} `json:"result"`
	Error *RPCError `json:"error"`
}

// SignatureStatus describes the confirmation state of one signature
type SignatureStatus struct {
	Slot               uint64      `json:"slot"`
	Confirmations      *int        `json:"confirmations"`
	Err                interface{} `json:"err"`
	ConfirmationStatus string      `json:"confirmationStatus"`
}
