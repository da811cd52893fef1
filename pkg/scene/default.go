package scene

// DefaultScene is the scene the viewer shows when no file is given: a ground
// slab, two buildings and two spheres under one point light.
const DefaultScene = `# camera overlooking the scene
c,myCamera,perspective,0,5,10,0,0,0,0,1,0;
l,myLight,point,2,5,2,1,1,1;

p,groundPlane,cube;
m,groundMat,0.2,0.7,0.2,0.8,0.8,0.8,0.0,0.0,0.0,10;
o,ground,groundPlane,groundMat;

p,building1,cube;
m,buildingMat1,0.7,0.1,0.1,0.8,0.8,0.8,0.5,0.5,0.5,10;
o,buildingOne,building1,buildingMat1;
X,buildingOne,T,2,0,2;

p,building2,cube;
m,buildingMat2,0.1,0.1,0.7,0.8,0.8,0.8,0.5,0.5,0.5,10;
o,buildingTwo,building2,buildingMat2;
X,buildingTwo,T,-2,0,-2;

p,sphere1,sphere,20,20;
m,sphereMat,0.8,0.8,0.8,0.8,0.8,0.8,0.9,0.9,0.9,10;
o,sphereOne,sphere1,sphereMat;
X,sphereOne,T,0,1,0;
X,sphereOne,S,1.5,1.5,1.5;
X,sphereOne,Rx,0.01;
X,sphereOne,Ry,0.02;
X,sphereOne,Rz,0.03;

m,textureMat,0.2,0.2,0.2,0.8,0.8,0.8,0.5,0.5,0.5,10,dice.jpg;
o,textureSphere,sphere1,textureMat;
`
