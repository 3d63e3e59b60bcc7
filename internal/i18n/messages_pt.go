package i18n

import "golang.org/x/text/message"

var ptMessages = map[string]string{
	"app.title":       "Painel de Prática SQL",
	"points.label":    "Pontos",
	"attempts.label":  "Problemas gerados hoje: %d/%d",
	"language.label":  "Idioma: %s",
	"language.switch": "Trocar idioma",

	"config.error.title":    "Erro de Configuração",
	"config.error.message":  "Chave do provedor de IA não encontrada. Defina GEMINI_API_KEY (ou API_KEY) para usar esta aplicação.",
	"config.error.guidance": "Consulte a documentação do seu provedor para obter instruções sobre como obter e configurar uma chave de API.",

	"difficulty.label":    "Dificuldade:",
	"difficulty.Easy":     "Fácil",
	"difficulty.Medium":   "Médio",
	"difficulty.Advanced": "Avançado",

	"problem.generate":   "Gerar Novo Problema",
	"problem.generating": "Gerando seu desafio SQL...",
	"quota.reached":      "Você atingiu seu limite diário de %d problemas gratuitos.",
	"quota.come_back":    "Limite diário gratuito atingido. Volte amanhã para mais!",
	"problem.title":      "Desafio SQL:",
	"problem.table":      "Tabela:",
	"problem.schema":     "Esquema:",
	"problem.sample":     "Dados de Exemplo:",
	"problem.empty":      "Pressione g para gerar um problema.",

	"solution.label":       "Sua Consulta SQL:",
	"solution.placeholder": "SELECT * FROM ...",
	"solution.submit":      "Enviar Solução",
	"solution.tip":         "Pressione Enter para enviar.",

	"feedback.correct.title":   "Correto!",
	"feedback.correct.message": "Você ganhou %d pontos. Muito bem!",
	"feedback.incorrect":       "Solução incorreta. Revise o problema e sua consulta. Lembre-se de verificar a sintaxe e a lógica!",
	"feedback.api_error":       "Falha ao gerar o problema. %s",
	"error.prefix":             "Erro:",

	"progress.loading":    "Carregando seu progresso...",
	"progress.load_error": "Não foi possível carregar seu progresso. Começando do zero ou faça login para sincronizar.",
	"progress.save_error": "Não foi possível salvar seu progresso. As alterações podem não persistir. Verifique se você está logado.",

	"hint.get":                 "Obter Dica (%d pts)",
	"hint.getting":             "Obtendo Dica...",
	"hint.show":                "Mostrar Dica",
	"hint.insufficient_points": "Pontos insuficientes para obter uma dica.",
	"hint.title":               "Dica:",
	"hint.error":               "Não foi possível gerar uma dica para este problema.",

	"auth.login.title":               "Entrar no Painel de Prática SQL",
	"auth.register.title":            "Criar Conta",
	"auth.email":                     "Endereço de Email",
	"auth.password":                  "Senha",
	"auth.name":                      "Nome Completo (Opcional)",
	"auth.login":                     "Entrar",
	"auth.register":                  "Registrar",
	"auth.logout":                    "Sair",
	"auth.federated":                 "Entrar com Google",
	"auth.or":                        "OU",
	"auth.no_account":                "Não tem uma conta?",
	"auth.have_account":              "Já tem uma conta?",
	"auth.sign_up":                   "Cadastre-se",
	"auth.sign_in":                   "Entrar",
	"auth.logging_in":                "Entrando...",
	"auth.registering":               "Registrando...",
	"auth.error.invalid_credentials": "Email ou senha inválidos.",
	"auth.error.email_exists":        "Já existe uma conta com este email.",
	"auth.error.registration_failed": "Falha no registro. Por favor, tente novamente.",
	"auth.error.federated_failed":    "Falha ao entrar com Google. Por favor, tente novamente.",
	"auth.error.generic":             "Ocorreu um erro de autenticação. Por favor, tente novamente.",
	"auth.welcome":                   "Bem-vindo(a), %s!",
	"auth.required":                  "Por favor, faça login ou registre-se para salvar seu progresso e acessar todas as funcionalidades.",
	"auth.required.title":            "Autenticação necessária",
	"auth.checking":                  "Verificando status da autenticação...",

	// Screens
	"welcome.tagline":  "Vamos escrever SQL!",
	"welcome.continue": "pressione qualquer tecla para continuar",
	"home.title":       "Início",
	"home.guest":       "Visitante",
	"menu.practice":    "PRATICAR",
	"menu.quit":        "SAIR",

	// Key hints
	"key.navigate":     "Navegar",
	"key.select":       "Selecionar",
	"key.quit":         "Sair",
	"key.back":         "Voltar",
	"key.details":      "Detalhes",
	"key.next_field":   "Próximo campo",
	"key.submit":       "Enviar",
	"key.generate":     "Novo problema",
	"key.edit":         "Editar consulta",
	"key.stop_editing": "Parar edição",
	"key.hint":         "Dica",

	// History
	"history.title":                   "Histórico de Prática",
	"history.empty":                   "Nenhuma atividade de prática ainda.",
	"history.loading":                 "Carregando histórico...",
	"history.kind.problem_generated":  "Problema gerado",
	"history.kind.solution_submitted": "Solução enviada",
	"history.kind.hint_purchased":     "Dica comprada",
	"history.kind.hint_refunded":      "Dica reembolsada",
}

func init() {
	lang := PT.Tag()
	for key, msg := range ptMessages {
		message.SetString(lang, key, msg)
	}
}
