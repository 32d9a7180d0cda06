package textproc

// emojiByName maps the canonical :name: form used by the persona tables to
// the literal emoji found in model output. Only names that appear in a
// configured emoji→phrase table are ever consulted; everything else falls
// through to outright deletion.
var emojiByName = map[string]string{
	":smirking_face:":                  "\U0001F60F",
	":face_blowing_a_kiss:":            "\U0001F618",
	":pouting_face:":                   "\U0001F621",
	":fire:":                           "\U0001F525",
	":thinking_face:":                  "\U0001F914",
	":collision:":                      "\U0001F4A5",
	":rocket:":                         "\U0001F680",
	":face_with_tears_of_joy:":         "\U0001F602",
	":cat_with_tears_of_joy:":          "\U0001F639",
	":neutral_face:":                   "\U0001F610",
	":face_with_monocle:":              "\U0001F9D0",
	":face_with_raised_eyebrow:":       "\U0001F928",
	":sparkles:":                       "✨",
	":rainbow:":                        "\U0001F308",
	":heart_eyes:":                     "\U0001F60D",
	":pleading_face:":                  "\U0001F97A",
	":hugging_face:":                   "\U0001F917",
	":two_hearts:":                     "\U0001F495",
	":clapping_hands:":                 "\U0001F44F",
	":glowing_star:":                   "\U0001F31F",
	":red_heart:":                      "❤️",
	":kiss_mark:":                      "\U0001F48B",
	":thumbs_up:":                      "\U0001F44D",
	":check_mark_button:":              "✅",
	":astonished_face:":                "\U0001F632",
	":face_with_open_mouth:":           "\U0001F62E",
	":unamused_face:":                  "\U0001F612",
	":face_with_rolling_eyes:":         "\U0001F644",
	":pensive_face:":                   "\U0001F614",
	":disappointed_face:":              "\U0001F61E",
	":folded_hands:":                   "\U0001F64F",
	":smiling_face_with_smiling_eyes:": "\U0001F60A",
	":face_screaming_in_fear:":         "\U0001F631",
	":ghost:":                          "\U0001F47B",
}
