package model

type SummarizeRequest struct {
	Transcript  string
	Instruction string
}

type SummarizeResult struct {
	Summary string
}
