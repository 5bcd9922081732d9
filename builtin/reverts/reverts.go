// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Kind is the machine readable kind of a revert.
type Kind string

// Kinds of revert.
const (
	InsufficientReceivedBidAmount Kind = "InsufficientReceivedBidAmount"
	RoundIsInactive               Kind = "RoundIsInactive"
	RoundIsActive                 Kind = "RoundIsActive"
	MainPrizeEarlyClaim           Kind = "MainPrizeEarlyClaim"
	MainPrizeClaimDenied          Kind = "MainPrizeClaimDenied"
	NoBidsPlacedInCurrentRound    Kind = "NoBidsPlacedInCurrentRound"
	UsedRandomWalkNft             Kind = "UsedRandomWalkNft"
	CallerIsNotNftOwner           Kind = "CallerIsNotNftOwner"
	TooLongBidMessage             Kind = "TooLongBidMessage"
	WrongBidType                  Kind = "WrongBidType"

	NftAlreadyUnstaked         Kind = "NftAlreadyUnstaked"
	NftHasAlreadyBeenStaked    Kind = "NftHasAlreadyBeenStaked"
	NftStakeActionInvalidId    Kind = "NftStakeActionInvalidId"
	NftStakeActionAccessDenied Kind = "NftStakeActionAccessDenied"
	ThereAreStakedNfts         Kind = "ThereAreStakedNfts"

	InvalidDepositSum        Kind = "InvalidDepositSum"
	DonatedTokenClaimDenied  Kind = "DonatedTokenClaimDenied"
	DonatedNftClaimDenied    Kind = "DonatedNftClaimDenied"
	DonatedNftAlreadyClaimed Kind = "DonatedNftAlreadyClaimed"
	InvalidDonatedNftIndex   Kind = "InvalidDonatedNftIndex"
	EarlyWithdrawal          Kind = "EarlyWithdrawal"
	CallDenied               Kind = "CallDenied"

	InsufficientBalance   Kind = "InsufficientBalance"
	InsufficientAllowance Kind = "InsufficientAllowance"
	NftNotFound           Kind = "NftNotFound"
	TooLongNftName        Kind = "TooLongNftName"
	FundTransferFailed    Kind = "FundTransferFailed"

	InvalidArgument              Kind = "InvalidArgument"
	ZeroAddress                  Kind = "ZeroAddress"
	NonZeroValueRequired         Kind = "NonZeroValueRequired"
	UnauthorizedCaller           Kind = "UnauthorizedCaller"
	OwnableUnauthorizedAccount   Kind = "OwnableUnauthorizedAccount"
	ReentrancyGuardReentrantCall Kind = "ReentrancyGuardReentrantCall"

	InvalidVersion        Kind = "InvalidVersion"
	UnknownImplementation Kind = "UnknownImplementation"

	GovernorInsufficientProposerVotes Kind = "GovernorInsufficientProposerVotes"
	GovernorUnexpectedProposalState   Kind = "GovernorUnexpectedProposalState"
	GovernorNonexistentProposal       Kind = "GovernorNonexistentProposal"
	GovernorInvalidProposalLength     Kind = "GovernorInvalidProposalLength"
	GovernorAlreadyCastVote           Kind = "GovernorAlreadyCastVote"
	GovernorInvalidVoteType           Kind = "GovernorInvalidVoteType"
	GovernorOnlyExecutor              Kind = "GovernorOnlyExecutor"
	GovernorInvalidQuorumFraction     Kind = "GovernorInvalidQuorumFraction"
)

// Error is a revert raised by a built-in contract.
// It aborts the enclosing transaction.
type Error struct {
	Kind    Kind
	Message string
	Args    []any
}

// New creates a revert error.
func New(kind Kind, message string, args ...any) *Error {
	return &Error{Kind: kind, Message: message, Args: args}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.Args) > 0 {
		b.WriteString(" ")
		b.WriteString(fmt.Sprint(e.Args...))
	}
	return b.String()
}

// Bytes abi-encodes the revert as Error(string).
func (e *Error) Bytes() []byte {
	if e == nil {
		return nil
	}

	// 4-byte selector for Error(string)
	selector, _ := hex.DecodeString("08c379a0")
	msgBytes := []byte(e.Error())
	msgLen := uint64(len(msgBytes))

	// ABI-encode
	// selector + offset (32 bytes) + length (32 bytes) + data (padded to 32)
	encoded := make([]byte, 0, 4+32+32+((len(msgBytes)+31)/32)*32)
	encoded = append(encoded, selector...)

	// Offset is always 0x20 (32) after the selector
	offset := make([]byte, 32)
	binary.BigEndian.PutUint64(offset[24:], 32)
	encoded = append(encoded, offset...)

	// Length
	length := make([]byte, 32)
	binary.BigEndian.PutUint64(length[24:], msgLen)
	encoded = append(encoded, length...)

	// Message data padded
	data := make([]byte, ((len(msgBytes)+31)/32)*32)
	copy(data, msgBytes)
	encoded = append(encoded, data...)

	return encoded
}

// IsRevertErr returns whether err is or wraps a revert.
func IsRevertErr(err error) bool {
	var re *Error
	return errors.As(err, &re) && re != nil
}

// KindOf extracts the revert kind. An empty kind is returned for non-revert errors.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) && re != nil {
		return re.Kind
	}
	return ""
}

// Is returns whether err is a revert of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
