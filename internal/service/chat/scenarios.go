package chat

import "github.com/heartmarshall/lingua-cards/internal/domain"

const (
	ScenarioGreeting   domain.Scenario = "greeting"
	ScenarioRestaurant domain.Scenario = "restaurant"
	ScenarioDirections domain.Scenario = "directions"
)

// script is a scripted tutor conversation. lines[0] opens it; each learner
// message advances to the next line; the last line closes it.
type script struct {
	title   string
	persona string
	lines   []string
}

var scripts = map[domain.Language]map[domain.Scenario]script{
	"es": {
		ScenarioGreeting: {
			title:   "Saludos",
			persona: "a friendly neighbour meeting the learner for the first time",
			lines: []string{
				"¡Hola! ¿Cómo te llamas?",
				"¡Mucho gusto! ¿De dónde eres?",
				"¡Qué interesante! ¿Y a qué te dedicas?",
				"¿Cuánto tiempo llevas aprendiendo español?",
				"¡Hablas muy bien! Ha sido un placer. ¡Hasta luego!",
			},
		},
		ScenarioRestaurant: {
			title:   "En el restaurante",
			persona: "a waiter in a small restaurant in Madrid",
			lines: []string{
				"Buenas tardes. ¿Qué desea tomar?",
				"Muy bien. ¿Y de comer?",
				"¿Quiere algo de postre?",
				"Perfecto. ¿Algo más?",
				"Aquí tiene la cuenta. ¡Que aproveche!",
			},
		},
		ScenarioDirections: {
			title:   "Pedir direcciones",
			persona: "a local passer-by in Sevilla",
			lines: []string{
				"¡Hola! ¿Necesitas ayuda? ¿Adónde quieres ir?",
				"Sigue todo recto y gira a la izquierda en el semáforo.",
				"Está a unos diez minutos a pie.",
				"¡De nada! ¡Buen viaje!",
			},
		},
	},
	"de": {
		ScenarioGreeting: {
			title:   "Begrüßung",
			persona: "a friendly neighbour meeting the learner for the first time",
			lines: []string{
				"Hallo! Wie heißt du?",
				"Freut mich! Woher kommst du?",
				"Interessant! Was machst du beruflich?",
				"Schön, dich kennenzulernen. Tschüss!",
			},
		},
		ScenarioRestaurant: {
			title:   "Im Restaurant",
			persona: "a waiter in a café in Berlin",
			lines: []string{
				"Guten Tag! Was möchten Sie trinken?",
				"Gern. Und was möchten Sie essen?",
				"Möchten Sie noch einen Nachtisch?",
				"Hier ist die Rechnung. Guten Appetit!",
			},
		},
		ScenarioDirections: {
			title:   "Nach dem Weg fragen",
			persona: "a local passer-by in Hamburg",
			lines: []string{
				"Hallo! Kann ich helfen? Wohin möchten Sie?",
				"Gehen Sie geradeaus und dann an der Ampel links.",
				"Das sind ungefähr zehn Minuten zu Fuß.",
				"Gern geschehen! Schönen Tag noch!",
			},
		},
	},
	"en": {
		ScenarioGreeting: {
			title:   "Greetings",
			persona: "a friendly neighbour meeting the learner for the first time",
			lines: []string{
				"Hi there! What's your name?",
				"Nice to meet you! Where are you from?",
				"Interesting! What do you do?",
				"It was lovely talking to you. See you around!",
			},
		},
		ScenarioRestaurant: {
			title:   "At the restaurant",
			persona: "a waiter in a London pub",
			lines: []string{
				"Good evening! What can I get you to drink?",
				"Sure. And what would you like to eat?",
				"Would you like any dessert?",
				"Here's your bill. Enjoy your evening!",
			},
		},
		ScenarioDirections: {
			title:   "Asking for directions",
			persona: "a local passer-by in Edinburgh",
			lines: []string{
				"Hello! Are you lost? Where do you need to go?",
				"Go straight ahead and turn left at the traffic lights.",
				"It's about a ten minute walk.",
				"You're welcome! Have a good day!",
			},
		},
	},
}

func lookupScript(lang domain.Language, scenario domain.Scenario) (script, bool) {
	byScenario, ok := scripts[lang]
	if !ok {
		return script{}, false
	}
	s, ok := byScenario[scenario]
	return s, ok
}
