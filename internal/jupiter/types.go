package jupiter

import "strconv"

// QuoteRequest describes one directional swap leg to price. Immutable once
// constructed; the amount travels as a string-encoded integer of the input
// asset's smallest unit.
type QuoteRequest struct {
	InputMint  string
	OutputMint string
	Amount     string // raw integer as string (uint64)

	SlippageBps      uint16
	OnlyDirectRoutes bool
	MaxAccounts      uint64
}

type QuoteResponse struct {
	InputMint            string          `json:"inputMint"`
	OutputMint           string          `json:"outputMint"`
	InAmount             string          `json:"inAmount"`
	OutAmount            string          `json:"outAmount"`
	OtherAmountThreshold string          `json:"otherAmountThreshold"`
	SwapMode             string          `json:"swapMode"`
	SlippageBps          uint16          `json:"slippageBps"`
	PriceImpactPct       string          `json:"priceImpactPct"`
	RoutePlan            []RoutePlanStep `json:"routePlan"`

	ContextSlot uint64  `json:"contextSlot,omitempty"`
	TimeTaken   float64 `json:"timeTaken,omitempty"`
}

type RoutePlanStep struct {
	SwapInfo SwapInfo `json:"swapInfo"`
	Percent  *uint8   `json:"percent,omitempty"`
	Bps      uint16   `json:"bps,omitempty"`
}

type SwapInfo struct {
	AmmKey     string `json:"ammKey"`
	Label      string `json:"label,omitempty"`
	InputMint  string `json:"inputMint"`
	OutputMint string `json:"outputMint"`
	InAmount   string `json:"inAmount"`
	OutAmount  string `json:"outAmount"`

	FeeAmount *string `json:"feeAmount,omitempty"`
	FeeMint   *string `json:"feeMint,omitempty"`
}

// SwapInstructionsRequest asks for the executable instruction set of a quoted
// route. The quote may be a merged round trip.
type SwapInstructionsRequest struct {
	UserPublicKey                 string         `json:"userPublicKey"`
	WrapAndUnwrapSol              bool           `json:"wrapAndUnwrapSol"`
	UseSharedAccounts             bool           `json:"useSharedAccounts"`
	ComputeUnitPriceMicroLamports uint64         `json:"computeUnitPriceMicroLamports"`
	DynamicComputeUnitLimit       bool           `json:"dynamicComputeUnitLimit"`
	SkipUserAccountsRpcCalls      bool           `json:"skipUserAccountsRpcCalls"`
	QuoteResponse                 *QuoteResponse `json:"quoteResponse"`
}

// SwapInstructionsResponse carries the ordered instruction descriptors for a
// swap plus the lookup tables the encoder must resolve.
type SwapInstructionsResponse struct {
	TokenLedgerInstruction      *Instruction  `json:"tokenLedgerInstruction,omitempty"`
	ComputeBudgetInstructions   []Instruction `json:"computeBudgetInstructions"`
	SetupInstructions           []Instruction `json:"setupInstructions"`
	SwapInstruction             Instruction   `json:"swapInstruction"`
	CleanupInstruction          *Instruction  `json:"cleanupInstruction,omitempty"`
	OtherInstructions           []Instruction `json:"otherInstructions,omitempty"`
	AddressLookupTableAddresses []string      `json:"addressLookupTableAddresses"`
	ComputeUnitLimit            uint32        `json:"computeUnitLimit"`
	PrioritizationFeeLamports   uint64        `json:"prioritizationFeeLamports"`
}

// Instruction is a wire-format instruction descriptor: program id, account
// list, base64 data payload.
type Instruction struct {
	ProgramID string        `json:"programId"`
	Accounts  []AccountMeta `json:"accounts"`
	Data      string        `json:"data"`
}

type AccountMeta struct {
	Pubkey     string `json:"pubkey"`
	IsSigner   bool   `json:"isSigner"`
	IsWritable bool   `json:"isWritable"`
}

// ParseError reports an amount field that is not representable as a
// non-negative integer.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return "jupiter: invalid " + e.Field + " " + strconv.Quote(e.Value)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseAmount converts a string-encoded amount into smallest units.
func ParseAmount(field, value string) (uint64, error) {
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, &ParseError{Field: field, Value: value, Err: err}
	}
	return n, nil
}

// OutAmountLamports returns the quote's output amount in smallest units.
func (q *QuoteResponse) OutAmountLamports() (uint64, error) {
	return ParseAmount("outAmount", q.OutAmount)
}
