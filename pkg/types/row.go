// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Row is one entry of the publications table in the target schema.
// Sequence numbers strictly increase in table order; no two rows share
// the same source identifier.
type Row struct {
	// Sequence is the running number in the first column.
	Sequence int `json:"sequence" yaml:"sequence"`

	// Period is the publication period formatted "YYYY/MM". Unknown
	// months render as "YYYY/??", a fully unknown date as "????/??".
	Period string `json:"period" yaml:"period"`

	// Location is the contributing site, "TBD" when unresolved.
	Location string `json:"location" yaml:"location"`

	// People is the comma-joined author list in source order.
	People string `json:"people" yaml:"people"`

	// Funding is the funding-acknowledgment field ("JA <code>").
	Funding string `json:"funding" yaml:"funding"`

	// Citation combines title, DOI and an escaped source link.
	Citation string `json:"citation" yaml:"citation"`
}
