package mockdata

type villageSeed struct {
	name     string
	lat, lng float64
}

var villages = []villageSeed{
	{"Rampur", 26.85, 80.95},
	{"Sitapur", 27.57, 80.68},
	{"Lakhanpur", 26.62, 81.32},
	{"Devgarh", 27.12, 80.41},
	{"Chandanpur", 26.98, 81.12},
	{"Bhagwanpur", 27.31, 81.05},
	{"Kishanganj", 26.71, 80.58},
	{"Mohanpura", 27.02, 80.77},
}

var firstNames = []string{
	"Asha", "Ravi", "Meena", "Arjun", "Kavita", "Suresh", "Pooja", "Vikram",
	"Anita", "Deepak", "Lakshmi", "Manoj", "Sunita", "Rahul", "Geeta", "Amit",
}

var lastNames = []string{"Sharma", "Verma", "Yadav", "Singh", "Patel", "Gupta", "Kumar", "Devi"}

type template struct {
	skills   []string
	severity string
	text     string
}

// templates pair problem descriptions with the skills that solve them.
// %s is replaced by the village name.
var templates = []template{
	{[]string{"plumbing"}, "HIGH", "Broken handpump in %s, urgent repair needed, contaminated water reported"},
	{[]string{"plumbing", "water management"}, "NORMAL", "Pipeline leak near the %s panchayat office is wasting water"},
	{[]string{"masonry", "construction"}, "HIGH", "School wall in %s has cracks and may collapse"},
	{[]string{"masonry"}, "LOW", "Routine maintenance of the community hall steps in %s"},
	{[]string{"electrical"}, "HIGH", "Exposed live wire near the %s market, shock hazard"},
	{[]string{"electrical", "solar installation"}, "NORMAL", "Solar street lights in %s stopped working"},
	{[]string{"first aid", "nursing"}, "HIGH", "Injury cases after a tractor accident in %s need first aid"},
	{[]string{"nursing", "community outreach"}, "NORMAL", "Vaccination awareness drive required in %s"},
	{[]string{"teaching"}, "LOW", "Evening tutoring sessions for children in %s"},
	{[]string{"agriculture", "water management"}, "NORMAL", "Irrigation channel silted up on farms around %s"},
	{[]string{"sanitation"}, "HIGH", "Overflowing drain in %s causing disease outbreak risk"},
	{[]string{"carpentry"}, "LOW", "Repaint and repair benches at the %s anganwadi"},
	{[]string{"data entry", "community outreach"}, "LOW", "Survey of households in %s for ration cards"},
	{[]string{"driving", "first aid"}, "HIGH", "Emergency transport needed for a flood victim in %s"},
}

var skillPool = []string{
	"plumbing", "masonry", "electrical", "carpentry", "first aid", "nursing",
	"teaching", "agriculture", "water management", "sanitation", "construction",
	"solar installation", "community outreach", "data entry", "driving",
}

var legend = []struct {
	category   string
	multiplier float64
}{
	{"rarely", 0.6},
	{"generally", 0.85},
	{"immediately", 1.0},
}
