package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/reliefworks/reliefdesk/internal/domain"
)

func printJSON(v any) error {
	b, err := jsonMarshal(v)
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func printKV(rows [][2]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	_ = w.Flush()
}

func printTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Println("no results")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

func formatMaybeUint(v *uint) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatUint(uint64(*v), 10)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func printIncidents(items []domain.Incident) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(item.ID), 10),
			item.Title,
			item.Location,
			strconv.FormatUint(uint64(item.ReportedBy), 10),
			formatTime(item.DateReported),
		})
	}
	printTable([]string{"ID", "TITLE", "LOCATION", "REPORTED_BY", "DATE_REPORTED"}, rows)
}

func printDonations(items []domain.Donation) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(item.ID), 10),
			item.DonorName,
			item.ResourceType,
			strconv.Itoa(item.Quantity),
			item.Status,
			formatTime(item.DonationDate),
		})
	}
	printTable([]string{"ID", "DONOR", "RESOURCE", "QTY", "STATUS", "DATE"}, rows)
}

func printResourceTotals(items []domain.ResourceTotal) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.ResourceType,
			strconv.Itoa(item.DonationCount),
			strconv.Itoa(item.TotalQuantity),
			strconv.Itoa(item.PendingCount),
		})
	}
	printTable([]string{"RESOURCE", "DONATIONS", "TOTAL_QTY", "PENDING"}, rows)
}

func printVolunteers(items []domain.Volunteer) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(item.ID), 10),
			strconv.FormatUint(uint64(item.UserID), 10),
			item.Skills,
			item.Availability,
			formatTime(item.JoinedAt),
		})
	}
	printTable([]string{"ID", "USER_ID", "SKILLS", "AVAILABILITY", "JOINED_AT"}, rows)
}

func printTasks(items []domain.VolunteerTask) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(item.ID), 10),
			item.TaskName,
			item.Status,
			formatTime(item.UpdatedAt),
		})
	}
	printTable([]string{"ID", "TASK", "STATUS", "UPDATED_AT"}, rows)
}

func printUsers(items []domain.User) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(item.ID), 10),
			item.FullName,
			item.Email,
			item.Role,
			formatTime(item.CreatedAt),
		})
	}
	printTable([]string{"ID", "NAME", "EMAIL", "ROLE", "CREATED_AT"}, rows)
}

func printAuditRecords(items []domain.AuditRecord) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(item.ID), 10),
			item.Action,
			item.TargetType,
			formatMaybeUint(item.TargetID),
			item.ActorUserEmail,
			formatTime(item.CreatedAt),
		})
	}
	printTable([]string{"ID", "ACTION", "TARGET_TYPE", "TARGET_ID", "ACTOR", "AT"}, rows)
}
