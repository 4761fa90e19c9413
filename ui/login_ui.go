package ui

import (
	"bytes"
	"image/color"
	"log"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Credentials is what the login form submits.
type Credentials struct {
	ServerURL string
	Username  string
	Password  string
	Register  bool
}

type LoginUI struct {
	UI *ebitenui.UI

	OnSubmit func(Credentials)

	serverInput   *widget.TextInput
	userInput     *widget.TextInput
	passwordInput *widget.TextInput
	statusLabel   *widget.Label
	loginBtn      *widget.Button
	registerBtn   *widget.Button

	titleFace  text.Face
	normalFace text.Face
	smallFace  text.Face
}

func NewLoginUI(serverURL, username string, onSubmit func(Credentials)) *LoginUI {
	ui := &LoginUI{OnSubmit: onSubmit}
	ui.loadFonts()
	ui.buildUI()
	ui.serverInput.SetText(serverURL)
	ui.userInput.SetText(username)
	return ui
}

func (ui *LoginUI) loadFonts() {
	fontSource, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Fatalf("failed to load UI font: %v", err)
	}

	ui.titleFace = &text.GoTextFace{Source: fontSource, Size: 18}
	ui.normalFace = &text.GoTextFace{Source: fontSource, Size: 12}
	ui.smallFace = &text.GoTextFace{Source: fontSource, Size: 10}
}

func (ui *LoginUI) buildUI() {
	rootContainer := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(color.RGBA{20, 20, 30, 255})),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)

	contentContainer := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(12)),
			widget.RowLayoutOpts.Spacing(8),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
	)

	contentContainer.AddChild(widget.NewLabel(
		widget.LabelOpts.Text("EMBERWATCH", &ui.titleFace, &widget.LabelColor{
			Idle: color.RGBA{255, 200, 120, 255},
		}),
	))

	contentContainer.AddChild(ui.buildForm())

	ui.statusLabel = widget.NewLabel(
		widget.LabelOpts.Text("", &ui.smallFace, &widget.LabelColor{
			Idle: color.RGBA{255, 200, 100, 255},
		}),
	)
	contentContainer.AddChild(ui.statusLabel)
	contentContainer.AddChild(ui.buildButtons())

	rootContainer.AddChild(contentContainer)
	ui.UI = &ebitenui.UI{Container: rootContainer}
}

func (ui *LoginUI) buildForm() *widget.Container {
	padding := widget.Insets{Top: 6, Bottom: 6, Left: 8, Right: 8}
	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(color.RGBA{30, 30, 45, 255})),
		widget.ContainerOpts.Layout(widget.NewGridLayout(
			widget.GridLayoutOpts.Columns(2),
			widget.GridLayoutOpts.Padding(&padding),
			widget.GridLayoutOpts.Spacing(6, 6),
		)),
	)

	ui.serverInput = ui.addField(panel, "Server:", "ws://localhost:8000/ws", 220, false)
	ui.userInput = ui.addField(panel, "Username:", "", 160, false)
	ui.passwordInput = ui.addField(panel, "Password:", "", 160, true)

	return panel
}

func (ui *LoginUI) addField(panel *widget.Container, label, placeholder string, width int, secure bool) *widget.TextInput {
	panel.AddChild(widget.NewLabel(
		widget.LabelOpts.Text(label, &ui.normalFace, &widget.LabelColor{
			Idle: color.RGBA{200, 200, 200, 255},
		}),
	))

	input := widget.NewTextInput(
		widget.TextInputOpts.WidgetOpts(widget.WidgetOpts.MinSize(width, 22)),
		widget.TextInputOpts.Image(&widget.TextInputImage{
			Idle:     image.NewNineSliceColor(color.RGBA{50, 50, 70, 255}),
			Disabled: image.NewNineSliceColor(color.RGBA{40, 40, 50, 255}),
		}),
		widget.TextInputOpts.Face(&ui.normalFace),
		widget.TextInputOpts.Color(&widget.TextInputColor{
			Idle:          color.RGBA{255, 255, 255, 255},
			Disabled:      color.RGBA{128, 128, 128, 255},
			Caret:         color.RGBA{255, 255, 255, 255},
			DisabledCaret: color.RGBA{128, 128, 128, 255},
		}),
		widget.TextInputOpts.Placeholder(placeholder),
		widget.TextInputOpts.Secure(secure),
		widget.TextInputOpts.Padding(widget.NewInsetsSimple(4)),
	)
	panel.AddChild(input)
	return input
}

func (ui *LoginUI) buildButtons() *widget.Container {
	container := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(10),
		)),
	)

	ui.loginBtn = ui.newButton("Login", color.RGBA{40, 100, 40, 255}, func() { ui.submit(false) })
	ui.registerBtn = ui.newButton("Register", color.RGBA{60, 60, 110, 255}, func() { ui.submit(true) })
	container.AddChild(ui.loginBtn)
	container.AddChild(ui.registerBtn)

	return container
}

func (ui *LoginUI) newButton(label string, base color.RGBA, onClick func()) *widget.Button {
	hover := color.RGBA{base.R + 20, base.G + 40, base.B + 20, 255}
	pressed := color.RGBA{base.R - 10, base.G - 20, base.B - 10, 255}
	return widget.NewButton(
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(100, 26)),
		widget.ButtonOpts.Image(&widget.ButtonImage{
			Idle:     image.NewNineSliceColor(base),
			Hover:    image.NewNineSliceColor(hover),
			Pressed:  image.NewNineSliceColor(pressed),
			Disabled: image.NewNineSliceColor(color.RGBA{40, 40, 50, 255}),
		}),
		widget.ButtonOpts.Text(label, &ui.normalFace, &widget.ButtonTextColor{
			Idle:     color.RGBA{255, 255, 255, 255},
			Hover:    color.RGBA{220, 255, 220, 255},
			Pressed:  color.RGBA{170, 200, 170, 255},
			Disabled: color.RGBA{100, 100, 100, 255},
		}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			onClick()
		}),
	)
}

func (ui *LoginUI) submit(register bool) {
	if ui.OnSubmit == nil {
		return
	}
	ui.OnSubmit(Credentials{
		ServerURL: ui.serverInput.GetText(),
		Username:  ui.userInput.GetText(),
		Password:  ui.passwordInput.GetText(),
		Register:  register,
	})
}

func (ui *LoginUI) SetStatus(msg string) {
	if ui.statusLabel != nil {
		ui.statusLabel.Label = msg
	}
}

// SetBusy disables the buttons while a login or connect is in flight
func (ui *LoginUI) SetBusy(busy bool) {
	ui.loginBtn.GetWidget().Disabled = busy
	ui.registerBtn.GetWidget().Disabled = busy
}

func (ui *LoginUI) Update() {
	ui.UI.Update()
}
