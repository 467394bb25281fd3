package handler

import (
	"idsynth/internal/identity/models"
	"idsynth/internal/identity/prediction"
	"idsynth/internal/identity/validate"
)

type GenerateResponse struct {
	Generated  int             `json:"generated"`
	Total      int             `json:"total"`
	Identities []models.Record `json:"identities"`
}

type ListResponse struct {
	Count      int             `json:"count"`
	Identities []models.Record `json:"identities"`
}

type EncryptResponse struct {
	Count     int                      `json:"count"`
	Encrypted []models.EncryptedRecord `json:"encrypted"`
}

// TrainResponse reports held-out accuracy of a training call.
type TrainResponse struct {
	Accuracy   float64 `json:"accuracy"`
	TrainSize  int     `json:"train_size"`
	TestSize   int     `json:"test_size"`
	Classes    int     `json:"classes"`
	DurationMS int64   `json:"duration_ms"`
}

func FromTrainReport(r prediction.TrainReport) *TrainResponse {
	return &TrainResponse{
		Accuracy:   r.Accuracy,
		TrainSize:  r.TrainSize,
		TestSize:   r.TestSize,
		Classes:    r.Classes,
		DurationMS: r.Duration.Milliseconds(),
	}
}

// TransferResponse answers both export and import.
type TransferResponse struct {
	Format   string `json:"format"`
	Location string `json:"location"`
	Count    int    `json:"count"`
}

type ValidationResponse struct {
	Index  int             `json:"index"`
	Valid  bool            `json:"valid"`
	Checks validate.Report `json:"checks"`
}

type CardResponse struct {
	models.IDCard
	Text string `json:"text"`
}
