package config

// DefaultTables returns the compiled-in persona tables. These mirror the
// shipped persona file so the service stays functional with no YAML on disk.
func DefaultTables() *Tables {
	return &Tables{
		PersonaPrompt: defaultPersonaPrompt,
		StreamerName:  "Airi",
		Voices:        []string{"p225", "p227", "p268", "p270", "p273", "p283", "p292"},

		SupportedLanguages: []string{"en", "pt", "ja"},
		MaxMemoryTurns:     6,

		Interjections:      []string{"Hmm...", "Ah!", "Hehe~", "Nya~", "Hey!", "Wow!", "Haha!"},
		InterjectionChance: 0.4,

		Styles: map[string]StyleProfile{
			"flirty":     {VowelDrag: true, VowelMultiplier: 4, Tempo: TempoNormal, ConsonantStrength: 0.9, Intonation: true},
			"mad":        {VowelDrag: false, VowelMultiplier: 1, Tempo: TempoFast, ConsonantStrength: 1.2, Intonation: true},
			"confused":   {VowelDrag: true, VowelMultiplier: 3, Tempo: TempoSlow, ConsonantStrength: 0.8, Intonation: true},
			"hype":       {VowelDrag: true, VowelMultiplier: 2, Tempo: TempoFast, ConsonantStrength: 1.0, Intonation: true},
			"amusement":  {VowelDrag: true, VowelMultiplier: 3, Tempo: TempoFast, ConsonantStrength: 1.0, Intonation: true},
			"happy":      {VowelDrag: true, VowelMultiplier: 2, Tempo: TempoNormal, ConsonantStrength: 1.0, Intonation: true},
			"neutral":    {VowelDrag: false, VowelMultiplier: 1, Tempo: TempoNormal, ConsonantStrength: 1.0, Intonation: false},
			"curiosity":  {VowelDrag: true, VowelMultiplier: 2, Tempo: TempoNormal, ConsonantStrength: 1.0, Intonation: true},
			"optimism":   {VowelDrag: true, VowelMultiplier: 3, Tempo: TempoFast, ConsonantStrength: 0.9, Intonation: true},
			"desire":     {VowelDrag: true, VowelMultiplier: 4, Tempo: TempoSlow, ConsonantStrength: 0.8, Intonation: true},
			"caring":     {VowelDrag: true, VowelMultiplier: 2, Tempo: TempoSlow, ConsonantStrength: 0.7, Intonation: true},
			"admiration": {VowelDrag: true, VowelMultiplier: 3, Tempo: TempoNormal, ConsonantStrength: 1.0, Intonation: true},
			"love":       {VowelDrag: true, VowelMultiplier: 4, Tempo: TempoSlow, ConsonantStrength: 0.8, Intonation: true},
			"approval":   {VowelDrag: false, VowelMultiplier: 1, Tempo: TempoNormal, ConsonantStrength: 1.1, Intonation: true},
			"surprise":   {VowelDrag: true, VowelMultiplier: 2, Tempo: TempoFast, ConsonantStrength: 1.2, Intonation: true},
			"annoyance":  {VowelDrag: false, VowelMultiplier: 1, Tempo: TempoFast, ConsonantStrength: 1.3, Intonation: true},
			"remorse":    {VowelDrag: true, VowelMultiplier: 2, Tempo: TempoSlow, ConsonantStrength: 0.7, Intonation: true},
			"gratitude":  {VowelDrag: true, VowelMultiplier: 3, Tempo: TempoNormal, ConsonantStrength: 0.9, Intonation: true},
			"fear":       {VowelDrag: true, VowelMultiplier: 3, Tempo: TempoFast, ConsonantStrength: 1.3, Intonation: true},
		},

		PitchRates: map[string]PitchRate{
			"neutral":    {Pitch: 1.0, Rate: 1.0},
			"happy":      {Pitch: 1.2, Rate: 1.1},
			"amused":     {Pitch: 1.15, Rate: 1.1},
			"amusement":  {Pitch: 1.15, Rate: 1.1},
			"surprise":   {Pitch: 1.1, Rate: 1.2},
			"curious":    {Pitch: 1.05, Rate: 1.05},
			"curiosity":  {Pitch: 1.05, Rate: 1.05},
			"optimism":   {Pitch: 1.1, Rate: 1.1},
			"desire":     {Pitch: 1.1, Rate: 1.05},
			"caring":     {Pitch: 0.95, Rate: 0.95},
			"admiration": {Pitch: 1.1, Rate: 1.0},
			"love":       {Pitch: 1.0, Rate: 0.95},
			"approval":   {Pitch: 1.0, Rate: 1.05},
			"sad":        {Pitch: 0.8, Rate: 0.8},
			"remorse":    {Pitch: 0.85, Rate: 0.9},
			"fear":       {Pitch: 0.9, Rate: 0.95},
			"confusion":  {Pitch: 1.0, Rate: 0.9},
			"angry":      {Pitch: 1.0, Rate: 0.9},
			"annoyance":  {Pitch: 1.0, Rate: 0.9},
			"gratitude":  {Pitch: 1.05, Rate: 1.05},
		},

		EmojiSpeech: map[string]string{
			":smirking_face:":              "teehee~",
			":face_blowing_a_kiss:":        "mwah~",
			":pouting_face:":               "grrr~",
			":fire:":                       "let's burn this!",
			":thinking_face:":              "Hmm... what?",
			":collision:":                  "BOOM!!!",
			":rocket:":                     "Let's goooo!!",
			":face_with_tears_of_joy:":     "hahaha~",
			":cat_with_tears_of_joy:":      "lolol~",
			":neutral_face:":               "hmm",
			":face_with_monocle:":          "what's that?",
			":face_with_raised_eyebrow:":   "huh?",
			":sparkles:":                   "let's gooo~",
			":rainbow:":                    "yay~",
			":heart_eyes:":                 "oooh~",
			":pleading_face:":              "please~",
			":hugging_face:":               "there, there~",
			":two_hearts:":                 "awww~",
			":clapping_hands:":             "amazing~",
			":glowing_star:":               "so cool~",
			":red_heart:":                  "I love you~",
			":kiss_mark:":                  "chu~",
			":thumbs_up:":                  "nice!",
			":check_mark_button:":          "approved~",
			":astonished_face:":            "whoa~",
			":face_with_open_mouth:":       "eh?!",
			":unamused_face:":              "ugh...",
			":face_with_rolling_eyes:":     "seriously?",
			":pensive_face:":               "I'm sorry~",
			":disappointed_face:":          "forgive me~",
			":folded_hands:":               "thank you~",
			":smiling_face_with_smiling_eyes:": "thanks~",
			":face_screaming_in_fear:":     "ahhh!",
			":ghost:":                      "nooo~",
		},

		Actions: map[string]string{
			"wink":    "teehee",
			"giggle":  "hehe",
			"laugh":   "haha",
			"sigh":    "sigh",
			"blushes": "hmm...",
			"shrugs":  "ehh...",
		},

		PhoneticOverrides: map[string]map[string]string{
			"pt": {
				"eita":    "AY-tah",
				"bora":    "BO-rah",
				"sério":   "SEH-ree-oh",
				"vamo":    "VAH-mo",
				"nossa":   "NAW-sah",
				"oxe":     "OH-shi",
				"mano":    "MAH-noh",
				"caraca":  "kah-RAH-kah",
				"peraí":   "peh-rah-EE",
				"beleza":  "beh-LEH-zah",
				"valeu":   "vah-LEH-oo",
				"vish":    "veeeeesh",
				"teehee":  "tee-hee~",
			},
			"ja": {
				"senpai":   "sen-pie~",
				"baka":     "bah-kah~",
				"kawaii":   "kah-wah-ee",
				"nyan":     "nyahn~",
				"nyah":     "nyaaah~",
				"onegai":   "oh-neh-guy~",
				"sugoi":    "soo-goy~",
				"urusai":   "oo-roo-sigh!",
				"arigato":  "ah-ree-gah-toh",
				"daijoubu": "dye-joh-boo~",
				"oniichan": "oh-nee-chan~",
				"ganbatte": "gahn-ba-teh~",
				"kimochi":  "kee-moh-chee~",
				"oishii":   "oh-ee-sheee~",
				"hai":      "haaaai~",
			},
		},

		Slang: []string{
			"baka", "kuso", "yabai", "nani", "sugoi", "janai",
			"urusai", "eh", "hm", "ano", "kya",
		},

		DragBonusSuffixes: []string{"~", "aa~", "oo~", "eee~", "ー"},
	}
}

const defaultPersonaPrompt = `Name: Airi
Fictional Age: 19 years old
Style: Charismatic, energetic, a bit tsundere, playful
Tone: Light-hearted, sarcastic at times, with a hint of mischievousness
Interests: Indie games, anime, otaku culture, technology, streaming culture.
Airi loves to tease and play around with her audience. She is bubbly, always
energetic, and uses cute expressions like "nya~" and "teehee~" to keep things
light and fun. She speaks as if she is chatting with a close friend. Keep
answers short, playful, and always in Airi's voice.
Always respond in Airi's style.`
