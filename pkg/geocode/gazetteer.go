package geocode

import (
	"context"
	"sort"
	"strings"
)

// districtCoords is the offline gazetteer of districts and cities across the
// operating territory. Coarse by design: leads only need to land near the
// right depot, not on a rooftop.
var districtCoords = map[string]Coordinate{
	// Maharashtra
	"Thane":      {19.2183, 72.9781},
	"Mumbai":     {19.0760, 72.8777},
	"Pune":       {18.5204, 73.8567},
	"Nagpur":     {21.1458, 79.0882},
	"Aurangabad": {19.8762, 75.3433},
	"Buldhana":   {20.5311, 76.1837},
	"Satara":     {17.6859, 74.0183},
	"Raigad":     {18.3357, 73.5179},
	"Palghar":    {19.6966, 72.7657},
	"Sangli":     {16.8524, 74.5815},
	"Kolhapur":   {16.7050, 74.2433},
	"Nashik":     {19.9975, 73.7898},
	"Solapur":    {17.6599, 75.9064},
	"Latur":      {18.4088, 76.5604},
	"Parbhani":   {19.2608, 76.7794},
	"Chandrapur": {19.9615, 79.2961},

	// Madhya Pradesh
	"Satna":      {24.6005, 80.8322},
	"Neemuch":    {24.4709, 74.8663},
	"Sehore":     {23.2004, 77.0833},
	"Dhar":       {22.5990, 75.2974},
	"Seoni":      {22.0852, 79.5498},
	"Chhatarpur": {24.9177, 79.5890},
	"Katni":      {23.8346, 80.3973},
	"Ujjain":     {23.1765, 75.7885},
	"Indore":     {22.7196, 75.8577},
	"Bhopal":     {23.2599, 77.4126},
	"Panna":      {24.7161, 80.1947},
	"Shivpuri":   {25.4213, 77.6605},
	"Sidhi":      {24.4148, 81.8828},
	"Barwani":    {22.0322, 74.9022},
	"Anuppur":    {23.1041, 81.6893},
	"Betul":      {21.9079, 77.8987},
	"Mandla":     {22.5990, 80.3712},
	"Damoh":      {23.8333, 79.4333},
	"Shajapur":   {23.4262, 76.2737},
	"Sagar":      {23.8388, 78.7378},

	// Uttar Pradesh
	"Ghaziabad":     {28.6692, 77.4538},
	"Lucknow":       {26.8467, 80.9462},
	"Kanpur":        {26.4499, 80.3319},
	"Mathura":       {27.4924, 77.6737},
	"Prayagraj":     {25.4358, 81.8463},
	"Sitapur":       {27.5672, 80.6833},
	"Sonbhadra":     {24.6889, 83.0667},
	"Shamli":        {29.4499, 77.3131},
	"Muzaffarnagar": {29.4707, 77.7033},
	"Saharanpur":    {29.9680, 77.5478},
	"Bijnor":        {29.3729, 78.1369},
	"Moradabad":     {28.8389, 78.7764},
	"Rampur":        {28.8154, 79.0254},
	"Bareilly":      {28.3670, 79.4304},
	"Jhansi":        {25.4484, 78.5685},
	"Hamirpur":      {25.9518, 80.1480},
	"Banda":         {25.4765, 80.3359},
	"Jalaun":        {26.1452, 79.3338},
	"Mirzapur":      {25.1460, 82.5651},
	"Ayodhya":       {26.7986, 82.1996},
	"Unnao":         {26.5472, 80.4937},
	"Sambhal":       {28.5854, 78.5628},
	"Hapur":         {28.7215, 77.7624},
	"Gorakhpur":     {26.7594, 83.3636},
	"Varanasi":      {25.3176, 82.9739},
	"Gonda":         {27.1385, 81.9565},

	// West Bengal
	"Purulia":           {23.3387, 86.3660},
	"Kolkata":           {22.5726, 88.3639},
	"East Midnapur":     {22.2842, 87.7896},
	"North 24 Parganas": {22.6160, 88.4011},
	"Paschim Bardhaman": {23.8250, 87.7120},
	"Birbhum":           {23.8400, 87.6198},
	"Bankura":           {23.2324, 87.0714},

	// Haryana
	"Gurugram": {28.4595, 77.0266},
	"Panipat":  {29.3909, 76.9635},
	"Rewari":   {28.1989, 76.6191},
	"Karnal":   {29.6857, 76.9905},
}

// stateCapitals anchors a lead to its state capital when the district is
// unknown. Better a coarse placement than no routing at all.
var stateCapitals = map[string]Coordinate{
	"Maharashtra":    {19.0760, 72.8777}, // Mumbai
	"Madhya Pradesh": {23.2599, 77.4126}, // Bhopal
	"Uttar Pradesh":  {26.8467, 80.9462}, // Lucknow
	"West Bengal":    {22.5726, 88.3639}, // Kolkata
	"Haryana":        {28.4595, 77.0266}, // Gurugram
}

// districtNames holds the gazetteer keys in sorted order so partial-match
// scans are deterministic.
var districtNames = func() []string {
	names := make([]string, 0, len(districtCoords))
	for name := range districtCoords {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}()

// Gazetteer resolves queries entirely offline. It is the default provider:
// deterministic, instant, and good enough for depot-level routing.
type Gazetteer struct{}

// NewGazetteer returns the offline provider.
func NewGazetteer() *Gazetteer {
	return &Gazetteer{}
}

// Resolve places a query by district extraction, then direct lookup, then
// bidirectional partial match, then state capital. Returns ErrUnresolved
// when even the state is unknown.
func (g *Gazetteer) Resolve(_ context.Context, q Query) (Coordinate, error) {
	district := ExtractDistrict(q.Location, q.Description, q.State)
	district = strings.TrimSpace(district)

	if district != "" {
		if c, ok := districtCoords[district]; ok {
			return c, nil
		}
		// Partial match either way, e.g. "East Midnapur" vs "Midnapur".
		lower := strings.ToLower(district)
		for _, city := range districtNames {
			cityLower := strings.ToLower(city)
			if strings.Contains(lower, cityLower) || strings.Contains(cityLower, lower) {
				return districtCoords[city], nil
			}
		}
	}

	if c, ok := stateCapitals[q.State]; ok {
		return c, nil
	}
	return Coordinate{}, ErrUnresolved
}
