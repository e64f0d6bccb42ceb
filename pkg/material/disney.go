package material

import (
	"math"

	"github.com/df07/go-volumetric-raytracer/pkg/core"
)

// DisneyConfig holds the principled BRDF parameters. All scalars are in [0, 1].
type DisneyConfig struct {
	BaseColor      ColorSource
	Metallic       float64
	Roughness      float64
	Anisotropic    float64
	Specular       float64 // 0.5 is a dielectric with IOR 1.5
	SpecularTint   float64
	Sheen          float64
	SheenTint      float64
	Clearcoat      float64
	ClearcoatGloss float64
	Subsurface     float64
}

// Disney is a reflection-only principled BRDF: a Burley diffuse base with
// retro-reflection and a subsurface approximation, a sheen layer, an
// anisotropic GGX specular lobe and a GTR1 clearcoat.
type Disney struct {
	DisneyConfig

	alphaX, alphaY float64
	coatAlpha      float64

	// Lobe selection probabilities for diffuse, specular and clearcoat
	pDiffuse, pSpecular, pCoat float64
}

const minDisneyAlpha = 1e-3

// NewDisney creates a principled material, clamping every parameter into range
func NewDisney(config DisneyConfig) *Disney {
	if config.BaseColor == nil {
		config.BaseColor = NewSolidColor(core.NewGray(0.8))
	}
	for _, v := range []*float64{
		&config.Metallic, &config.Roughness, &config.Anisotropic, &config.Specular,
		&config.SpecularTint, &config.Sheen, &config.SheenTint, &config.Clearcoat,
		&config.ClearcoatGloss, &config.Subsurface,
	} {
		*v = max(0, min(1, *v))
	}

	d := &Disney{DisneyConfig: config}
	aspect := math.Sqrt(1 - 0.9*config.Anisotropic)
	r2 := config.Roughness * config.Roughness
	d.alphaX = max(minDisneyAlpha, r2/aspect)
	d.alphaY = max(minDisneyAlpha, r2*aspect)
	d.coatAlpha = lerp(0.1, 0.001, config.ClearcoatGloss)

	wDiffuse := 1 - config.Metallic
	wSpecular := 1.0
	wCoat := 0.25 * config.Clearcoat
	total := wDiffuse + wSpecular + wCoat
	d.pDiffuse = wDiffuse / total
	d.pSpecular = wSpecular / total
	d.pCoat = wCoat / total
	return d
}

// Scatter picks a lobe and samples it. The reported pdf covers all lobes.
func (d *Disney) Scatter(rayIn core.Ray, hit *SurfaceInteraction, sampler core.Sampler) (ScatterResult, bool) {
	frame := core.NewFrame(hit.Normal)
	wi := frame.ToLocal(rayIn.Direction.Normalize().Negate())
	if wi.Z <= 0 {
		return ScatterResult{}, false
	}

	u := sampler.Get1D()
	sample := sampler.Get2D()
	var wo core.Vec3
	switch {
	case u < d.pDiffuse:
		wo = frame.ToLocal(core.SampleCosineHemisphere(hit.Normal, sample))
	case u < d.pDiffuse+d.pSpecular:
		h := sampleGGXVisible(wi, d.alphaX, d.alphaY, sample)
		wo = reflectAbout(wi, h)
	default:
		h := sampleGTR1(d.coatAlpha, sample)
		wo = reflectAbout(wi, h)
	}
	if wo.Z <= 0 {
		return ScatterResult{}, false
	}

	pdf := d.pdfLocal(wi, wo)
	if !(pdf > 0) {
		return ScatterResult{}, false
	}
	return ScatterResult{
		Incoming:    rayIn,
		Scattered:   core.NewRay(hit.Point, frame.ToWorld(wo)),
		Attenuation: d.evaluateLocal(wi, wo, d.BaseColor.Evaluate(hit.UV, hit.Point)),
		PDF:         pdf,
	}, true
}

func (d *Disney) EvaluateBRDF(incomingDir, outgoingDir core.Vec3, hit *SurfaceInteraction) core.Vec3 {
	frame := core.NewFrame(hit.Normal)
	wi := frame.ToLocal(incomingDir.Normalize().Negate())
	wo := frame.ToLocal(outgoingDir.Normalize())
	if wi.Z <= 0 || wo.Z <= 0 {
		return core.Vec3{}
	}
	return d.evaluateLocal(wi, wo, d.BaseColor.Evaluate(hit.UV, hit.Point))
}

func (d *Disney) PDF(incomingDir, outgoingDir, normal core.Vec3) (float64, bool) {
	frame := core.NewFrame(normal)
	wi := frame.ToLocal(incomingDir.Normalize().Negate())
	wo := frame.ToLocal(outgoingDir.Normalize())
	if wi.Z <= 0 || wo.Z <= 0 {
		return 0, false
	}
	return d.pdfLocal(wi, wo), false
}

// IsDiffuse is true: the lobes are glossy at worst, so photons are stored on it
func (d *Disney) IsDiffuse() bool {
	return true
}

// evaluateLocal expects both directions in the upper hemisphere of the shading frame
func (d *Disney) evaluateLocal(wi, wo, base core.Vec3) core.Vec3 {
	h := wi.Add(wo).Normalize()
	cosI, cosO := wi.Z, wo.Z
	cosD := wi.Dot(h)
	fi, fo, fd := schlickWeight(cosI), schlickWeight(cosO), schlickWeight(cosD)

	// Burley diffuse, blended toward the Hanrahan-Krueger subsurface shape
	fd90 := 0.5 + 2*cosD*cosD*d.Roughness
	diffuse := lerp(1, fd90, fi) * lerp(1, fd90, fo)
	fss90 := cosD * cosD * d.Roughness
	fss := lerp(1, fss90, fi) * lerp(1, fss90, fo)
	ss := 1.25 * (fss*(1/(cosI+cosO)-0.5) + 0.5)
	result := base.Multiply(lerp(diffuse, ss, d.Subsurface) / math.Pi)

	tint := core.NewGray(1)
	if lum := base.Luminance(); lum > 0 {
		tint = base.Multiply(1 / lum)
	}
	sheenColor := lerpVec(core.NewGray(1), tint, d.SheenTint)
	result = result.Add(sheenColor.Multiply(d.Sheen * fd)).Multiply(1 - d.Metallic)

	specColor := lerpVec(lerpVec(core.NewGray(1), tint, d.SpecularTint).Multiply(0.08*d.Specular), base, d.Metallic)
	fresnel := lerpVec(specColor, core.NewGray(1), fd)
	spec := ggxAnisoD(h, d.alphaX, d.alphaY) * ggxAnisoG(wi, wo, d.alphaX, d.alphaY) / (4 * cosI * cosO)
	result = result.Add(fresnel.Multiply(spec))

	if d.Clearcoat > 0 {
		coat := 0.25 * d.Clearcoat * lerp(0.04, 1, fd) * gtr1D(h.Z, d.coatAlpha) *
			ggxAnisoG(wi, wo, 0.25, 0.25) / (4 * cosI * cosO)
		result = result.Add(core.NewGray(coat))
	}
	return result
}

func (d *Disney) pdfLocal(wi, wo core.Vec3) float64 {
	h := wi.Add(wo).Normalize()
	pdf := d.pDiffuse * wo.Z / math.Pi
	pdf += d.pSpecular * ggxAnisoG1(wi, d.alphaX, d.alphaY) * ggxAnisoD(h, d.alphaX, d.alphaY) / (4 * wi.Z)
	if d.pCoat > 0 {
		pdf += d.pCoat * gtr1D(h.Z, d.coatAlpha) * h.Z / (4 * wo.Dot(h))
	}
	return pdf
}

// ggxAnisoD is the anisotropic GGX (GTR2) distribution of half vector h
func ggxAnisoD(h core.Vec3, ax, ay float64) float64 {
	if h.Z <= 0 {
		return 0
	}
	t := h.X*h.X/(ax*ax) + h.Y*h.Y/(ay*ay) + h.Z*h.Z
	return 1 / (math.Pi * ax * ay * t * t)
}

func ggxLambda(w core.Vec3, ax, ay float64) float64 {
	tan2 := (ax*ax*w.X*w.X + ay*ay*w.Y*w.Y) / (w.Z * w.Z)
	return (math.Sqrt(1+tan2) - 1) / 2
}

func ggxAnisoG1(w core.Vec3, ax, ay float64) float64 {
	return 1 / (1 + ggxLambda(w, ax, ay))
}

// ggxAnisoG is the height-correlated Smith masking-shadowing term
func ggxAnisoG(wi, wo core.Vec3, ax, ay float64) float64 {
	return 1 / (1 + ggxLambda(wi, ax, ay) + ggxLambda(wo, ax, ay))
}

// gtr1D is the Berry (GTR1) distribution used by the clearcoat
func gtr1D(cosH, alpha float64) float64 {
	if cosH <= 0 {
		return 0
	}
	a2 := alpha * alpha
	t := 1 + (a2-1)*cosH*cosH
	return (a2 - 1) / (math.Pi * math.Log(a2) * t)
}

// sampleGTR1 draws a half vector with pdf D(h)*cos(theta_h)
func sampleGTR1(alpha float64, u core.Vec2) core.Vec3 {
	a2 := alpha * alpha
	cosTheta := math.Sqrt(max(0, (1-math.Pow(a2, 1-u.X))/(1-a2)))
	sinTheta := math.Sqrt(max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * u.Y
	return core.NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
}

// sampleGGXVisible draws a half vector from the GGX normals visible from wi
func sampleGGXVisible(wi core.Vec3, ax, ay float64, u core.Vec2) core.Vec3 {
	vh := core.NewVec3(ax*wi.X, ay*wi.Y, wi.Z).Normalize()
	t1 := core.NewVec3(1, 0, 0)
	if lensq := vh.X*vh.X + vh.Y*vh.Y; lensq > 0 {
		t1 = core.NewVec3(-vh.Y, vh.X, 0).Multiply(1 / math.Sqrt(lensq))
	}
	t2 := vh.Cross(t1)

	r := math.Sqrt(u.X)
	phi := 2 * math.Pi * u.Y
	p1 := r * math.Cos(phi)
	p2 := r * math.Sin(phi)
	s := 0.5 * (1 + vh.Z)
	p2 = (1-s)*math.Sqrt(max(0, 1-p1*p1)) + s*p2

	nh := t1.Multiply(p1).Add(t2.Multiply(p2)).Add(vh.Multiply(math.Sqrt(max(0, 1-p1*p1-p2*p2))))
	return core.NewVec3(ax*nh.X, ay*nh.Y, max(0, nh.Z)).Normalize()
}

// reflectAbout mirrors w (pointing away from the surface) about h
func reflectAbout(w, h core.Vec3) core.Vec3 {
	return h.Multiply(2 * w.Dot(h)).Subtract(w)
}

func schlickWeight(cosTheta float64) float64 {
	m := max(0, min(1, 1-cosTheta))
	m2 := m * m
	return m2 * m2 * m
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func lerpVec(a, b core.Vec3, t float64) core.Vec3 {
	return a.Add(b.Subtract(a).Multiply(t))
}
