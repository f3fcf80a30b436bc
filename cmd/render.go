package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"github.com/spigell/netmatch/internal/backend"
	"github.com/spigell/netmatch/internal/filtering"
	"github.com/spigell/netmatch/internal/pagination"
	"github.com/spigell/netmatch/internal/utils"
)

const (
	cellWidth        = 40
	descriptionWidth = 160
	noValue          = "-"
)

func cell(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return noValue
	}
	return utils.TruncateForLog(s, cellWidth)
}

func renderTable(data pterm.TableData) {
	if err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Render(); err != nil {
		pterm.Error.Printfln("rendering table: %s", err)
	}
}

func renderNoSession() {
	pterm.Warning.Println("No active session. Upload your LinkedIn Connections.csv first: netmatch upload <file>")
}

func renderEmpty(what string) {
	pterm.Info.Printfln("No %s found.", what)
}

func renderConnections(connections []backend.Connection) {
	data := pterm.TableData{{"Name", "Role", "Company", "Location", "Profile"}}
	for _, c := range connections {
		data = append(data, []string{cell(c.Name), cell(c.Role()), cell(c.Company), cell(c.Location), cell(c.Key())})
	}
	renderTable(data)
}

func renderJobs(jobs []backend.Job) {
	data := pterm.TableData{{"ID", "Title", "Company", "Location", "Posted"}}
	for _, j := range jobs {
		data = append(data, []string{cell(j.ID), cell(j.Title), cell(j.Company), cell(j.Location), posted(j)})
	}
	renderTable(data)
}

func renderMatches(matches []backend.Match) {
	for _, m := range matches {
		pterm.DefaultSection.Printfln("%s · %d %s · %d %s", m.Company,
			len(m.Jobs), utils.Plural(len(m.Jobs), "open position", "open positions"),
			len(m.Connections), utils.Plural(len(m.Connections), "connection", "connections"),
		)

		jobs := pterm.TableData{{"Title", "Location", "Posted", "Apply"}}
		for _, j := range m.Jobs {
			jobs = append(jobs, []string{cell(j.Title), cell(j.Location), posted(j), cell(j.ApplyURL)})
		}
		renderTable(jobs)

		people := pterm.TableData{{"Name", "Role", "Profile"}}
		for _, c := range m.Connections {
			people = append(people, []string{cell(c.Name), cell(c.Role()), cell(c.ProfileURL)})
		}
		renderTable(people)
	}
}

func renderJob(j backend.Job) {
	pterm.DefaultSection.Println(j.Title)
	fields := pterm.TableData{
		{"Company", cell(j.Company)},
		{"Location", cell(j.Location)},
		{"Posted", posted(j)},
		{"Apply", cell(j.ApplyURL)},
	}
	if len(j.Skills) > 0 {
		fields = append(fields, []string{"Skills", strings.Join(j.Skills, ", ")})
	}
	if j.Meta != nil {
		fields = append(fields, []string{"Industry", cell(j.Meta.Industry)}, []string{"Size", cell(j.Meta.CompanySize)})
	}
	if err := pterm.DefaultTable.WithData(fields).Render(); err != nil {
		pterm.Error.Printfln("rendering job: %s", err)
	}
	if desc := j.PlainDescription(); desc != "" {
		pterm.Println(utils.TruncateForLog(desc, descriptionWidth))
	}
}

func posted(j backend.Job) string {
	t := j.Posted()
	if t.IsZero() {
		return noValue
	}
	return humanize.Time(t)
}

func renderConnectionStats(stats filtering.ConnectionStats) {
	renderTable(pterm.TableData{
		{"Connections", "Companies", "Locations"},
		{humanize.Comma(int64(stats.Total)), humanize.Comma(int64(stats.Companies)), humanize.Comma(int64(stats.Locations))},
	})
}

func renderMatchStats(stats filtering.MatchStats) {
	renderTable(pterm.TableData{
		{"Matches", "Jobs", "Connections", "Strong", "Medium", "Weak", "Avg per match"},
		{
			humanize.Comma(int64(stats.Matches)),
			humanize.Comma(int64(stats.Jobs)),
			humanize.Comma(int64(stats.Connections)),
			strconv.Itoa(stats.Strong),
			strconv.Itoa(stats.Medium),
			strconv.Itoa(stats.Weak),
			fmt.Sprintf("%.1f", stats.AverageConnections),
		},
	})

	companies := make([]string, 0, len(stats.PerCompany))
	for c := range stats.PerCompany {
		companies = append(companies, c)
	}
	sort.Slice(companies, func(i, j int) bool {
		ci, cj := stats.PerCompany[companies[i]], stats.PerCompany[companies[j]]
		if ci != cj {
			return ci > cj
		}
		return companies[i] < companies[j]
	})

	data := pterm.TableData{{"Company", "Connections"}}
	for _, c := range companies {
		data = append(data, []string{cell(c), strconv.Itoa(stats.PerCompany[c])})
	}
	renderTable(data)
}

// renderCompanyCounts lists companies in order with the number of connections at each.
func renderCompanyCounts(companies []string, groups map[string][]backend.Connection) {
	data := pterm.TableData{{"Company", "Connections"}}
	for _, c := range companies {
		data = append(data, []string{cell(c), humanize.Comma(int64(len(groups[c])))})
	}
	renderTable(data)
}

func renderList(title string, values []string) {
	pterm.DefaultSection.Println(title)
	items := make([]pterm.BulletListItem, 0, len(values))
	for _, v := range values {
		items = append(items, pterm.BulletListItem{Level: 0, Text: v})
	}
	if err := pterm.DefaultBulletList.WithItems(items).Render(); err != nil {
		pterm.Error.Printfln("rendering list: %s", err)
	}
}

// pagerLine describes the current page, e.g. "1 … 4 [5] 6 … 12 · 41-50 of 120 matches (of 130)".
// unfiltered is the count before client-side filtering.
func pagerLine(p *pagination.Paginator, noun string, unfiltered int) string {
	pages := make([]string, 0, len(p.Pages()))
	for _, n := range p.Pages() {
		switch n {
		case pagination.Ellipsis:
			pages = append(pages, "…")
		case p.Page():
			pages = append(pages, "["+strconv.Itoa(n)+"]")
		default:
			pages = append(pages, strconv.Itoa(n))
		}
	}

	first, last := p.Range()
	line := fmt.Sprintf("%s · %d-%d of %s %s", strings.Join(pages, " "), first, last, humanize.Comma(int64(p.TotalItems())), noun)
	if unfiltered != p.TotalItems() {
		line += fmt.Sprintf(" (of %s)", humanize.Comma(int64(unfiltered)))
	}
	return line
}

func renderPager(p *pagination.Paginator, noun string, unfiltered int) {
	if p.TotalItems() == 0 {
		return
	}
	pterm.Info.Println(pagerLine(p, noun, unfiltered))
}
