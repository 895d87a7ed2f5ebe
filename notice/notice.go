// Package notice holds the transient messages pages show to shoppers
// (the toasts of the storefront).
package notice

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

func Success(msg string) *Notice { return &Notice{Level: LevelSuccess, Message: msg} }
func Error(msg string) *Notice   { return &Notice{Level: LevelError, Message: msg} }
func Info(msg string) *Notice    { return &Notice{Level: LevelInfo, Message: msg} }

// Messages shown by the storefront, in Portuguese like the rest of the UI.
const (
	MsgLoadProducts      = "Erro ao carregar os produtos."
	MsgLoadCart          = "Erro ao carregar o carrinho."
	MsgAddedToCart       = "Produto adicionado ao carrinho!"
	MsgAddToCartFailed   = "Erro ao adicionar no carrinho."
	MsgCartUpdated       = "Carrinho atualizado."
	MsgCartUpdateFailed  = "Erro ao atualizar o carrinho."
	MsgCartCleared       = "Carrinho esvaziado."
	MsgCheckoutDisabled  = "A finalização de compra ainda não está disponível."
	MsgProductCreated    = "Produto cadastrado com sucesso!"
	MsgProductCreateFail = "Erro ao cadastrar produto. Tente novamente."
	MsgProductUpdated    = "Produto atualizado com sucesso!"
	MsgProductUpdateFail = "Erro ao atualizar o produto."
	MsgProductDeleted    = "Produto excluído com sucesso!"
	MsgProductDeleteFail = "Erro ao excluir o produto."
	MsgImageUploadFail   = "Erro ao fazer upload da imagem. Tente novamente."
	MsgImageRequired     = "Por favor, forneça uma URL ou um arquivo de imagem."
	MsgProductNotFound   = "Produto não encontrado."
	MsgTeamNotFound      = "Nenhuma camisa encontrada para este time."
	MsgInvalidLogin      = "E-mail ou senha inválidos. Por favor, verifique seus dados ou crie uma conta."
	MsgLoginFailed       = "Não foi possível entrar. Tente novamente."
	MsgEmailTaken        = "Este e-mail já está cadastrado."
	MsgWeakPassword      = "A senha deve ter pelo menos 6 caracteres."
	MsgInvalidEmail      = "Informe um e-mail válido."
	MsgGoogleDisabled    = "O login com Google não está disponível."
	MsgProfileNotSaved   = "Ocorreu um erro ao salvar o seu perfil."
	MsgAccountCreated    = "Conta criada com sucesso! Você já pode fazer o login."
	MsgSignedOut         = "Você saiu da sua conta."
	MsgSignOutFailed     = "Não foi possível sair. Tente novamente."
)
