package models

import (
	"strings"
)

// IDCard is a printable identity card issued for a record.
type IDCard struct {
	Number      string  `json:"id_number"`
	Name        string  `json:"name"`
	Gender      Gender  `json:"gender"`
	DateOfBirth string  `json:"date_of_birth"`
	Nationality Country `json:"nationality"`
	Address     string  `json:"address"`
	IssueDate   string  `json:"issue_date"`
	ExpiryDate  string  `json:"expiry_date"`
}

// String renders the card as a framed text block.
func (c IDCard) String() string {
	const rule = "================================\n"
	var b strings.Builder
	b.WriteString(rule)
	b.WriteString(strings.ToUpper(string(c.Nationality)) + " IDENTIFICATION CARD\n")
	b.WriteString(rule)
	b.WriteString("ID Number: " + c.Number + "\n")
	b.WriteString("Name: " + c.Name + "\n")
	b.WriteString("Gender: " + string(c.Gender) + "\n")
	b.WriteString("Date of Birth: " + c.DateOfBirth + "\n")
	b.WriteString("Nationality: " + string(c.Nationality) + "\n")
	b.WriteString("Address: " + c.Address + "\n")
	b.WriteString("\n")
	b.WriteString("Issue Date: " + c.IssueDate + "\n")
	b.WriteString("Expiry Date: " + c.ExpiryDate + "\n")
	b.WriteString(rule)
	return b.String()
}
