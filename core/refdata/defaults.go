package refdata

// Defaults returns the built-in reference tables covering the Walt Disney
// World and Universal Orlando parks. Deployments with other resorts load
// their own tables from file instead.
func Defaults() *Tables {
	return &Tables{
		ResortOf: map[string]string{
			"magic-kingdom":             "wdw",
			"epcot":                     "wdw",
			"hollywood-studios":         "wdw",
			"animal-kingdom":            "wdw",
			"universal-studios-florida": "universal-orlando",
			"islands-of-adventure":      "universal-orlando",
		},
		TransitionMinutes: map[string]int{
			"magic-kingdom|epcot":                          45, // monorail via TTC
			"magic-kingdom|hollywood-studios":              40,
			"magic-kingdom|animal-kingdom":                 40,
			"epcot|hollywood-studios":                      25, // skyliner or boat
			"epcot|animal-kingdom":                         35,
			"hollywood-studios|animal-kingdom":             30,
			"universal-studios-florida|islands-of-adventure": 15, // walk via CityWalk
		},
		WalkMinutes: map[string]int{
			"main-street|adventureland":  6,
			"main-street|fantasyland":    8,
			"main-street|tomorrowland":   7,
			"adventureland|frontierland": 4,
			"frontierland|fantasyland":   6,
			"fantasyland|tomorrowland":   5,
			"adventureland|tomorrowland": 10,
			"world-showcase|future-world": 9,
			"hollywood-blvd|sunset-blvd": 5,
			"hollywood-blvd|galaxys-edge": 8,
			"sunset-blvd|galaxys-edge":   10,
			"discovery-island|pandora":   7,
			"discovery-island|africa":    6,
			"africa|asia":                8,
		},
		DefaultWalkMinutes:       10,
		DefaultTransitionMinutes: 45,
	}
}
