package tily

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor parses a CSS color string: a named color, "transparent",
// #rgb, #rgba, #rrggbb, #rrggbbaa, rgb(), rgba(), hsl() or hsla().
// The second result is false when s is not a recognised color.
func ParseColor(s string) (Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Color{}, false
	}
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	if strings.HasPrefix(s, "#") {
		return parseHexColor(s)
	}
	name, args, ok := splitFunc(s)
	if !ok {
		return Color{}, false
	}
	switch name {
	case "rgb", "rgba":
		return parseRGBFunc(args)
	case "hsl", "hsla":
		return parseHSLFunc(args)
	}
	return Color{}, false
}

// MustParseColor is ParseColor returning transparent on failure.
func MustParseColor(s string) Color {
	c, _ := ParseColor(s)
	return c
}

// colorCache memoizes style strings resolved while drawing.
var colorCache sync.Map

// styleColor resolves a colour string for drawing. Unrecognised strings
// draw as transparent.
func styleColor(s string) Color {
	if c, ok := colorCache.Load(s); ok {
		return c.(Color)
	}
	c := MustParseColor(s)
	colorCache.Store(s, c)
	return c
}

// CSS formats c as "rgba(R, G, B, A)" with integer channels and the alpha
// rounded to two decimals.
func (c Color) CSS() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)",
		int(math.Round(clamp(c.R, 0, 1)*255)),
		int(math.Round(clamp(c.G, 0, 1)*255)),
		int(math.Round(clamp(c.B, 0, 1)*255)),
		strconv.FormatFloat(math.Round(clamp(c.A, 0, 1)*100)/100, 'f', -1, 64))
}

func parseHexColor(s string) (Color, bool) {
	hex := s[1:]
	var alpha = 1.0
	switch len(hex) {
	case 3, 6:
	case 4:
		a, err := strconv.ParseUint(strings.Repeat(hex[3:], 2), 16, 8)
		if err != nil {
			return Color{}, false
		}
		alpha = float64(a) / 255
		hex = hex[:3]
	case 8:
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return Color{}, false
		}
		alpha = float64(a) / 255
		hex = hex[:6]
	default:
		return Color{}, false
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return Color{}, false
	}
	return Color{R: c.R, G: c.G, B: c.B, A: alpha}, true
}

// splitFunc splits "name(a, b, c)" into its name and trimmed arguments.
// Both comma and whitespace separated forms are accepted, with an optional
// "/ alpha" suffix.
func splitFunc(s string) (string, []string, bool) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", nil, false
	}
	body := s[open+1 : len(s)-1]
	body = strings.ReplaceAll(body, "/", " ")
	body = strings.ReplaceAll(body, ",", " ")
	return strings.TrimSpace(s[:open]), strings.Fields(body), true
}

func parseRGBFunc(args []string) (Color, bool) {
	if len(args) != 3 && len(args) != 4 {
		return Color{}, false
	}
	var ch [3]float64
	for i := 0; i < 3; i++ {
		v, pct, ok := parseNumber(args[i])
		if !ok {
			return Color{}, false
		}
		if pct {
			ch[i] = clamp(v/100, 0, 1)
		} else {
			ch[i] = clamp(v/255, 0, 1)
		}
	}
	a := 1.0
	if len(args) == 4 {
		var ok bool
		if a, ok = parseAlpha(args[3]); !ok {
			return Color{}, false
		}
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: a}, true
}

func parseHSLFunc(args []string) (Color, bool) {
	if len(args) != 3 && len(args) != 4 {
		return Color{}, false
	}
	h, _, ok := parseNumber(strings.TrimSuffix(args[0], "deg"))
	if !ok {
		return Color{}, false
	}
	sat, _, ok := parseNumber(args[1])
	if !ok {
		return Color{}, false
	}
	light, _, ok := parseNumber(args[2])
	if !ok {
		return Color{}, false
	}
	a := 1.0
	if len(args) == 4 {
		if a, ok = parseAlpha(args[3]); !ok {
			return Color{}, false
		}
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := colorful.Hsl(h, clamp(sat/100, 0, 1), clamp(light/100, 0, 1)).Clamped()
	return Color{R: c.R, G: c.G, B: c.B, A: a}, true
}

// parseNumber parses "12", "12.5" or "12%"; the bool reports a percentage.
func parseNumber(s string) (float64, bool, bool) {
	pct := strings.HasSuffix(s, "%")
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, false, false
	}
	return v, pct, true
}

func parseAlpha(s string) (float64, bool) {
	v, pct, ok := parseNumber(s)
	if !ok {
		return 0, false
	}
	if pct {
		v /= 100
	}
	return clamp(v, 0, 1), true
}

// Outline is the parsed form of an outline style string "width colour".
// Width is measured in tiles.
type Outline struct {
	Width  float64
	Colour string
}

// ParseOutline parses "width colour". A missing or zero width becomes 0.1
// and a missing colour becomes "transparent".
func ParseOutline(s string) Outline {
	o := Outline{Width: 0.1, Colour: "transparent"}
	parts := splitStyle(s)
	if len(parts) > 0 {
		if w, err := strconv.ParseFloat(parts[0], 64); err == nil && w != 0 {
			o.Width = w
		}
	}
	if len(parts) > 1 {
		o.Colour = parts[1]
	}
	return o
}

// String formats the outline back into "width colour".
func (o Outline) String() string {
	return strconv.FormatFloat(o.Width, 'f', -1, 64) + " " + o.Colour
}

// Shadow is the parsed form of a shadow style string
// "blur xOffset yOffset colour". Values are measured in tiles.
type Shadow struct {
	Blur    float64
	XOffset float64
	YOffset float64
	Colour  string
}

// ParseShadow parses "blur xOffset yOffset colour". Missing values default
// to blur 1, offsets 0 and colour "transparent".
func ParseShadow(s string) Shadow {
	sh := Shadow{Blur: 1, Colour: "transparent"}
	parts := splitStyle(s)
	fields := []*float64{&sh.Blur, &sh.XOffset, &sh.YOffset}
	for i, f := range fields {
		if i >= len(parts) {
			break
		}
		if v, err := strconv.ParseFloat(parts[i], 64); err == nil && v != 0 {
			*f = v
		}
	}
	if len(parts) > 3 {
		sh.Colour = parts[3]
	}
	return sh
}

// String formats the shadow back into "blur xOffset yOffset colour".
func (s Shadow) String() string {
	return strconv.FormatFloat(s.Blur, 'f', -1, 64) + " " +
		strconv.FormatFloat(s.XOffset, 'f', -1, 64) + " " +
		strconv.FormatFloat(s.YOffset, 'f', -1, 64) + " " + s.Colour
}

// splitStyle splits a style string on whitespace while keeping
// parenthesised color functions such as "rgba(1, 2, 3, 0.5)" intact.
func splitStyle(s string) []string {
	var parts []string
	depth, start := 0, -1
	for i, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case (r == ' ' || r == '\t') && depth == 0:
			if start >= 0 {
				parts = append(parts, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		parts = append(parts, s[start:])
	}
	return parts
}

// namedColors holds the CSS named colors.
var namedColors = map[string]Color{
	"transparent": {0, 0, 0, 0},
}

func init() {
	for name, hex := range cssColorHex {
		c, ok := parseHexColor(hex)
		if ok {
			namedColors[name] = c
		}
	}
}

var cssColorHex = map[string]string{
	"aliceblue": "#f0f8ff", "antiquewhite": "#faebd7", "aqua": "#00ffff",
	"aquamarine": "#7fffd4", "azure": "#f0ffff", "beige": "#f5f5dc",
	"bisque": "#ffe4c4", "black": "#000000", "blanchedalmond": "#ffebcd",
	"blue": "#0000ff", "blueviolet": "#8a2be2", "brown": "#a52a2a",
	"burlywood": "#deb887", "cadetblue": "#5f9ea0", "chartreuse": "#7fff00",
	"chocolate": "#d2691e", "coral": "#ff7f50", "cornflowerblue": "#6495ed",
	"cornsilk": "#fff8dc", "crimson": "#dc143c", "cyan": "#00ffff",
	"darkblue": "#00008b", "darkcyan": "#008b8b", "darkgoldenrod": "#b8860b",
	"darkgray": "#a9a9a9", "darkgreen": "#006400", "darkgrey": "#a9a9a9",
	"darkkhaki": "#bdb76b", "darkmagenta": "#8b008b", "darkolivegreen": "#556b2f",
	"darkorange": "#ff8c00", "darkorchid": "#9932cc", "darkred": "#8b0000",
	"darksalmon": "#e9967a", "darkseagreen": "#8fbc8f", "darkslateblue": "#483d8b",
	"darkslategray": "#2f4f4f", "darkslategrey": "#2f4f4f", "darkturquoise": "#00ced1",
	"darkviolet": "#9400d3", "deeppink": "#ff1493", "deepskyblue": "#00bfff",
	"dimgray": "#696969", "dimgrey": "#696969", "dodgerblue": "#1e90ff",
	"firebrick": "#b22222", "floralwhite": "#fffaf0", "forestgreen": "#228b22",
	"fuchsia": "#ff00ff", "gainsboro": "#dcdcdc", "ghostwhite": "#f8f8ff",
	"gold": "#ffd700", "goldenrod": "#daa520", "gray": "#808080",
	"green": "#008000", "greenyellow": "#adff2f", "grey": "#808080",
	"honeydew": "#f0fff0", "hotpink": "#ff69b4", "indianred": "#cd5c5c",
	"indigo": "#4b0082", "ivory": "#fffff0", "khaki": "#f0e68c",
	"lavender": "#e6e6fa", "lavenderblush": "#fff0f5", "lawngreen": "#7cfc00",
	"lemonchiffon": "#fffacd", "lightblue": "#add8e6", "lightcoral": "#f08080",
	"lightcyan": "#e0ffff", "lightgoldenrodyellow": "#fafad2", "lightgray": "#d3d3d3",
	"lightgreen": "#90ee90", "lightgrey": "#d3d3d3", "lightpink": "#ffb6c1",
	"lightsalmon": "#ffa07a", "lightseagreen": "#20b2aa", "lightskyblue": "#87cefa",
	"lightslategray": "#778899", "lightslategrey": "#778899", "lightsteelblue": "#b0c4de",
	"lightyellow": "#ffffe0", "lime": "#00ff00", "limegreen": "#32cd32",
	"linen": "#faf0e6", "magenta": "#ff00ff", "maroon": "#800000",
	"mediumaquamarine": "#66cdaa", "mediumblue": "#0000cd", "mediumorchid": "#ba55d3",
	"mediumpurple": "#9370db", "mediumseagreen": "#3cb371", "mediumslateblue": "#7b68ee",
	"mediumspringgreen": "#00fa9a", "mediumturquoise": "#48d1cc", "mediumvioletred": "#c71585",
	"midnightblue": "#191970", "mintcream": "#f5fffa", "mistyrose": "#ffe4e1",
	"moccasin": "#ffe4b5", "navajowhite": "#ffdead", "navy": "#000080",
	"oldlace": "#fdf5e6", "olive": "#808000", "olivedrab": "#6b8e23",
	"orange": "#ffa500", "orangered": "#ff4500", "orchid": "#da70d6",
	"palegoldenrod": "#eee8aa", "palegreen": "#98fb98", "paleturquoise": "#afeeee",
	"palevioletred": "#db7093", "papayawhip": "#ffefd5", "peachpuff": "#ffdab9",
	"peru": "#cd853f", "pink": "#ffc0cb", "plum": "#dda0dd",
	"powderblue": "#b0e0e6", "purple": "#800080", "rebeccapurple": "#663399",
	"red": "#ff0000", "rosybrown": "#bc8f8f", "royalblue": "#4169e1",
	"saddlebrown": "#8b4513", "salmon": "#fa8072", "sandybrown": "#f4a460",
	"seagreen": "#2e8b57", "seashell": "#fff5ee", "sienna": "#a0522d",
	"silver": "#c0c0c0", "skyblue": "#87ceeb", "slateblue": "#6a5acd",
	"slategray": "#708090", "slategrey": "#708090", "snow": "#fffafa",
	"springgreen": "#00ff7f", "steelblue": "#4682b4", "tan": "#d2b48c",
	"teal": "#008080", "thistle": "#d8bfd8", "tomato": "#ff6347",
	"turquoise": "#40e0d0", "violet": "#ee82ee", "wheat": "#f5deb3",
	"white": "#ffffff", "whitesmoke": "#f5f5f5", "yellow": "#ffff00",
	"yellowgreen": "#9acd32",
}
