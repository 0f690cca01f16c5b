package bot

import "github.com/kwasu-works/lostfound-bot/models"

// FindMatchesForLostItem pairs a newly reported lost item against the
// found records in reports: exact case-insensitive name equality, in the
// order the records appear.
func FindMatchesForLostItem(itemName string, reports []*models.Report) []*models.Report {
	var matches []*models.Report
	for _, report := range reports {
		if report.Kind != models.KindFound {
			continue
		}
		if report.NameEquals(itemName) {
			matches = append(matches, report)
		}
	}
	return matches
}
