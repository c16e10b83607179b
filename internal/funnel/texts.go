package funnel

// User-facing texts. The bot speaks Ukrainian; keep the wording in sync with
// the quiz web app.
const (
	textContactRequest = "Вітаю, Незламні!\n\n" +
		"✨ Я розробив для вас цей тест, аби ви раз і назавжди змогли відповісти собі на важливе питання: " +
		"**чи дійсно я щось відчуваю і які здібності приховані в мені?**\n\n" +
		"Тут ви зможете дізнатися, наскільки ваші дари вже розвинені чи поки що сплять, " +
		"і отримаєте рекомендації, як їх правильно розвивати.\n\n" +
		"Не відкладайте — скоріше натискайте кнопку **«Пройти тест»** і отримайте свій результат 🔮\n\n" +
		"📱 Але спочатку поділіться контактом:"

	buttonShareContact = "📱 Поділитися контактом"

	textContactSaved = "✅ Дякую, %s!\n📞 Контакт збережено.\n\n"

	textMainMenu = "⬇️Натисніть кнопку нижче \"Пройти тест\", щоб почати тест. ⬇️\n\n" +
		"А після завершення тесту натисніть «Отримати результат в боті» — і дізнайтеся свій рівень здібностей.\n\n" +
		"⬇️⬇️⬇️"

	buttonTakeQuiz = "🔮 Пройти тест"

	textCelebration = "🎉 ВАШІ РЕЗУЛЬТАТИ!\n\nМожете поділитись в сторіс та відмітити мене"

	textResultFallback = "📊 Ваш результат: %s\nБали: %d/%d"

	textAcademyFirst = "✨ Вітаю вас!\n" +
		"Ви щойно побачили, що здібності у вас є — і вони не випадкові. " +
		"Такі здібності зустрічаються справді рідко — і це підтверджує, що ви маєте особливий дар.\n\n" +
		"Я шукаю саме таких як ви!\n\n" +
		"Пам'ятаю себе на вашому місці, коли не знав як і де розвивати їх. " +
		"Саме тому я створив першу Академію Таро.\n\n" +
		"Це простір, де ви зможете не просто підтвердити свій дар, а й розкрити його на максимум:\n" +
		"- пізнаєте свої здібності та опануєте методи їх розвитку;\n" +
		"- опануєте безпечну методику роботи з Таро, щоб впевнено проводити розклади без ризику нашкодити собі чи клієнту;\n" +
		"- наповните своє життя сенсом і новими фарбами, відкривши своє покликання через Таро;\n" +
		"- перетворите свою місію допомоги людям у стабільне джерело доходу."

	textAcademySecond = "Маю честь, %s, запропонувати вам персональне менторство і підтримку " +
		"на шляху вашого розвитку, щоб допомогти розкрити потенціал ще глибше через практику Таро.\n\n" +
		"Зараз у вас є можливість зробити перший крок, натиснувши кнопку «Дізнатись про Академію» — " +
		"і отримати більше, ніж інші:\n" +
		"- безкоштовну консультацію від моєї команди;\n" +
		"- закріпити за собою найкращі умови навчання;\n" +
		"- а також шанс увійти в число перших 50 учнів, які отримають особливий подарунок від мене особисто.\n\n" +
		"⬇️Натискайте кнопку «Дізнатись про Академію» — і відкрийте двері до істинного шляху до себе.⬇️\n\n" +
		"⬇️⬇️⬇️"

	buttonAcademyInfo = "Дізнатись про Академію"

	textInterestConfirmed = "Чудово, ваша заявка отримана! З вами звʼяжеться моя команда!"

	textProcessingError = "Виникла помилка при обробці результату."

	textBroadcastUsage = "Введіть текст після команди. Приклад: /send Привіт всім!"
	textBroadcastEmpty = "Немає користувачів для розсилки."
	textBroadcastStart = "Розпочинаю розсилку для %d користувачів..."
	textBroadcastDone  = "Розсилка завершена!\nВідправлено: %d\nПомилок: %d"

	// fallbackName replaces a missing first name in personalized texts.
	fallbackName = "друже"
)

// CallbackAcademyInfo identifies the "learn about the academy" button press.
const CallbackAcademyInfo = "academy_info"

// BroadcastPrefix starts an admin broadcast command; everything after it is
// sent verbatim.
const BroadcastPrefix = "/send "

// resultPayloadTag marks a quiz-result deep link payload; the integer score
// follows the tag.
const resultPayloadTag = "result_"

// Candidate sources for the academy photo, tried in order.
var academyPhotoURLs = []string{
	"https://raw.githubusercontent.com/molfartaro/molfa-webapp/main/academy-image.png",
	"https://github.com/molfartaro/molfa-webapp/blob/main/academy-image.png?raw=true",
	"https://molfartaro.github.io/molfa-webapp/academy-image.png",
}

func displayName(firstName string) string {
	if firstName == "" {
		return fallbackName
	}
	return firstName
}
