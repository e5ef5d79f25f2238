package testutil

import (
	"github.com/google/uuid"
)

// Fixed UUIDs for deterministic testing
var (
	TestPredictionID1 = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	TestPredictionID2 = uuid.MustParse("00000000-0000-0000-0000-000000000002")
)

// SampleTransactionJSON is a well-formed /predict request body matching the
// sample artifacts shipped under artifacts/.
const SampleTransactionJSON = `{
	"amount": 2500.50,
	"state": "Telangana",
	"card_type": "Rupay",
	"bank": "ICICI Bank",
	"category": "Transportation",
	"location": "Bangalore"
}`
