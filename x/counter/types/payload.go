package types

import (
	"encoding/json"
	"strings"
)

// ObjectChangeCreated is the change kind of a newly created object.
const ObjectChangeCreated = "created"

// ExecutionStatusSuccess is the effects status of a transaction that executed.
const ExecutionStatusSuccess = "success"

// SubmissionResult is what the wallet returns after signing and broadcasting.
type SubmissionResult struct {
	Digest string `json:"digest"`
}

// ResponseOptions selects the facets returned with a confirmed transaction.
type ResponseOptions struct {
	ShowInput          bool `json:"showInput"`
	ShowEffects        bool `json:"showEffects"`
	ShowEvents         bool `json:"showEvents"`
	ShowObjectChanges  bool `json:"showObjectChanges"`
	ShowBalanceChanges bool `json:"showBalanceChanges"`
}

// DefaultResponseOptions requests effects, object changes and events.
func DefaultResponseOptions() ResponseOptions {
	return ResponseOptions{
		ShowEffects:       true,
		ShowObjectChanges: true,
		ShowEvents:        true,
	}
}

// ExecutionStatus is the outcome recorded in the transaction effects.
type ExecutionStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// GasCostSummary is the gas charged for a transaction.
type GasCostSummary struct {
	ComputationCost         string `json:"computationCost"`
	StorageCost             string `json:"storageCost"`
	StorageRebate           string `json:"storageRebate"`
	NonRefundableStorageFee string `json:"nonRefundableStorageFee"`
}

// TransactionEffects is the subset of effects the client inspects.
type TransactionEffects struct {
	Status            ExecutionStatus `json:"status"`
	GasUsed           GasCostSummary  `json:"gasUsed"`
	TransactionDigest string          `json:"transactionDigest"`
}

// Succeeded reports whether the effects carry a success status.
func (e *TransactionEffects) Succeeded() bool {
	return e != nil && e.Status.Status == ExecutionStatusSuccess
}

// ObjectChange records the creation, mutation or deletion of an object.
type ObjectChange struct {
	Kind       string          `json:"type"`
	Sender     string          `json:"sender,omitempty"`
	Owner      json.RawMessage `json:"owner,omitempty"`
	ObjectType string          `json:"objectType,omitempty"`
	ObjectID   Address         `json:"objectId,omitempty"`
	Version    string          `json:"version,omitempty"`
	Digest     string          `json:"digest,omitempty"`

	// Malformed is set when the entry could not be decoded.
	Malformed bool `json:"-"`
}

// EventID identifies an emitted event.
type EventID struct {
	TxDigest string `json:"txDigest"`
	EventSeq string `json:"eventSeq"`
}

// Event is an event emitted by the transaction.
type Event struct {
	ID                EventID         `json:"id"`
	PackageID         Address         `json:"packageId"`
	TransactionModule string          `json:"transactionModule"`
	Sender            string          `json:"sender"`
	Type              string          `json:"type"`
	ParsedJSON        json.RawMessage `json:"parsedJson,omitempty"`
}

// ConfirmationPayload is the settled result of a transaction.
type ConfirmationPayload struct {
	Digest        string              `json:"digest"`
	Effects       *TransactionEffects `json:"effects,omitempty"`
	ObjectChanges []ObjectChange      `json:"objectChanges,omitempty"`
	Events        []Event             `json:"events,omitempty"`
	TimestampMs   string              `json:"timestampMs,omitempty"`
	Checkpoint    string              `json:"checkpoint,omitempty"`

	// Raw is the payload as returned by the node.
	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the payload entry by entry. A change or event that
// does not fit the schema is kept as a malformed placeholder instead of
// failing the whole payload, so the ledger order is preserved.
func (p *ConfirmationPayload) UnmarshalJSON(bz []byte) error {
	var aux struct {
		Digest        string            `json:"digest"`
		Effects       json.RawMessage   `json:"effects"`
		ObjectChanges []json.RawMessage `json:"objectChanges"`
		Events        []json.RawMessage `json:"events"`
		TimestampMs   json.RawMessage   `json:"timestampMs"`
		Checkpoint    json.RawMessage   `json:"checkpoint"`
	}
	if err := json.Unmarshal(bz, &aux); err != nil {
		return err
	}

	*p = ConfirmationPayload{
		Digest:      aux.Digest,
		TimestampMs: looseString(aux.TimestampMs),
		Checkpoint:  looseString(aux.Checkpoint),
		Raw:         append(json.RawMessage(nil), bz...),
	}

	if len(aux.Effects) != 0 && string(aux.Effects) != "null" {
		var effects TransactionEffects
		if err := json.Unmarshal(aux.Effects, &effects); err == nil {
			p.Effects = &effects
		}
	}

	for _, raw := range aux.ObjectChanges {
		var change ObjectChange
		if err := json.Unmarshal(raw, &change); err != nil {
			change = ObjectChange{Malformed: true}
		}
		p.ObjectChanges = append(p.ObjectChanges, change)
	}

	for _, raw := range aux.Events {
		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			continue
		}
		p.Events = append(p.Events, event)
	}

	return nil
}

// FindCreated returns the id of the first created object whose type ends
// with suffix, scanning the changes in the order the ledger returned them.
func (p ConfirmationPayload) FindCreated(suffix string) (Address, bool) {
	for _, change := range p.ObjectChanges {
		if change.Malformed || change.Kind != ObjectChangeCreated {
			continue
		}
		if change.ObjectType == "" || !strings.HasSuffix(change.ObjectType, suffix) {
			continue
		}
		if change.ObjectID.Empty() {
			continue
		}

		return change.ObjectID, true
	}

	return "", false
}

// looseString accepts both "123" and 123.
func looseString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	return string(raw)
}
